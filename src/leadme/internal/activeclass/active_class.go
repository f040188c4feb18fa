// Package activeclass persists the running class session and the service's connection details
// so that a restarted leader can resume the session.
package activeclass

import (
	"context"
	"fmt"
	"sync"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const _configKeyFile = "activeClassFilePath"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// File manages the contents of a single active class file.
type File interface {
	// UpdateField records a connection detail. Connection details are dropped when the service stops.
	UpdateField(key string, value string) error
	// Save records s as the active class session.
	Save(s entity.ClassSession) error
	// Load returns the recorded session and false if none is recorded.
	Load() (entity.ClassSession, bool, error)
	// Clear forgets the active class session.
	Clear() error
}

// Params define values to be used by File.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	FS        fs.LeadmeFS
}

type contents struct {
	ClassCode  string            `yaml:"classCode,omitempty"`
	Leader     *leader           `yaml:"leader,omitempty"`
	Connection map[string]string `yaml:"connection,omitempty"`
}

type leader struct {
	Name     string `yaml:"name"`
	UniqueID string `yaml:"uniqueId"`
	UserID   string `yaml:"userId,omitempty"`
}

type module struct {
	path   string
	fs     fs.LeadmeFS
	logger *zap.SugaredLogger

	mu       sync.Mutex
	contents contents
}

// New creates a File backed by the path in activeClassFilePath. An existing file is loaded.
func New(p Params) (File, error) {
	m := &module{
		fs:     p.FS,
		logger: p.Logger,
	}
	if err := p.Config.Get(_configKeyFile).Populate(&m.path); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyFile, err)
	}
	if m.path == "" {
		return nil, fmt.Errorf("missing field %q in config", _configKeyFile)
	}
	if err := m.read(); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: m.onStop,
	})
	return m, nil
}

func (m *module) UpdateField(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.contents.Connection == nil {
		m.contents.Connection = make(map[string]string)
	}
	m.contents.Connection[key] = value
	if err := m.write(); err != nil {
		return err
	}
	m.logger.Infow("connection info saved", zap.String("file", m.path), zap.String(key, value))
	return nil
}

func (m *module) Save(s entity.ClassSession) error {
	if !entity.ValidClassCode(s.ClassCode) {
		return fmt.Errorf("invalid class code %q", s.ClassCode)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.contents.ClassCode = s.ClassCode
	m.contents.Leader = &leader{Name: s.Leader.Name, UniqueID: s.Leader.UniqueID, UserID: s.Leader.UserID}
	return m.write()
}

func (m *module) Load() (entity.ClassSession, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.contents.ClassCode == "" {
		return entity.ClassSession{}, false, nil
	}
	s := entity.ClassSession{ClassCode: m.contents.ClassCode}
	if l := m.contents.Leader; l != nil {
		s.Leader = entity.Leader{Name: l.Name, UniqueID: l.UniqueID, UserID: l.UserID}
	}
	return s, true, nil
}

func (m *module) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.contents.ClassCode = ""
	m.contents.Leader = nil
	return m.write()
}

func (m *module) onStop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.contents.Connection = nil
	return m.write()
}

// read loads the file if it exists. Callers hold m.mu or own m exclusively.
func (m *module) read() error {
	exists, err := m.fs.FileExists(m.path)
	if err != nil {
		return fmt.Errorf("checking active class file: %w", err)
	}
	if !exists {
		return nil
	}
	data, err := m.fs.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("reading active class file: %w", err)
	}
	var c contents
	if err := yaml.Unmarshal(data, &c); err != nil {
		m.logger.Warnw("ignoring unreadable active class file", "file", m.path, "error", err)
		return nil
	}
	if c.ClassCode != "" && !entity.ValidClassCode(c.ClassCode) {
		m.logger.Warnw("ignoring invalid class code in active class file", "file", m.path, "classCode", c.ClassCode)
		c.ClassCode = ""
		c.Leader = nil
	}
	c.Connection = nil
	m.contents = c
	return nil
}

// write persists the contents, removing the file once nothing is left to record. Callers hold m.mu.
func (m *module) write() error {
	if m.contents.ClassCode == "" && len(m.contents.Connection) == 0 {
		if err := m.fs.Remove(m.path); err != nil {
			return fmt.Errorf("removing active class file: %w", err)
		}
		return nil
	}
	data, err := yaml.Marshal(m.contents)
	if err != nil {
		return fmt.Errorf("marshalling yaml: %w", err)
	}
	if err := m.fs.WriteFile(m.path, data); err != nil {
		return fmt.Errorf("writing active class file: %w", err)
	}
	return nil
}
