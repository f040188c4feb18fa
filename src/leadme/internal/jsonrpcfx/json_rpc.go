// Package jsonrpcfx serves the leader's local JSON-RPC control endpoint.
package jsonrpcfx

//go:generate mockgen -source=json_rpc.go -destination=jsonrpcfxmock/json_rpc.go -package=jsonrpcfxmock

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/activeclass"
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKeyAddress = "jsonrpc.address"
	_outputKey        = "jsonrpc-address"
)

// Module is an fx module to handle JSON-RPC requests.
var Module = fx.Provide(New)

// JSONRPCModule represents a module to manage JSON-RPC requests.
type JSONRPCModule interface {
	OnStart(ctx context.Context) error
	OnStop(ctx context.Context) error
	ServeStream(ctx context.Context, conn jsonrpc2.Conn) error
	RegisterConnectionManager(connectionManager ConnectionManager) error
}

// Router serves as the interface through which handling of requests will be implemented.
type Router interface {
	HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error
	UUID() uuid.UUID
}

// ConnectionManager will manage each active connection and its corresponding Router throughout the lifecycle of a connection.
type ConnectionManager interface {
	NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router Router, err error)
	RemoveConnection(ctx context.Context, id uuid.UUID)
}

type module struct {
	Address string `json:"address"`

	connectionMgr ConnectionManager
	ln            *net.TCPListener
	logger        *zap.SugaredLogger
	activeFile    activeclass.File

	ctx    context.Context
	cancel context.CancelFunc
	served sync.WaitGroup

	mu       sync.Mutex
	stopping bool
	conns    map[jsonrpc2.Conn]struct{}
}

// Params define values to be used by JsonRpcHandler.
type Params struct {
	fx.In

	Config     config.Provider
	Lifecycle  fx.Lifecycle
	Logger     *zap.SugaredLogger
	ActiveFile activeclass.File
}

// New creates a new server to handle JSON-RPC requests on the configured address.
func New(p Params) (JSONRPCModule, error) {
	if p.Lifecycle == nil || p.Config == nil {
		return nil, errors.New("required parameters are missing")
	}

	m := module{
		logger:     p.Logger,
		activeFile: p.ActiveFile,
		conns:      make(map[jsonrpc2.Conn]struct{}),
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: m.OnStart,
		OnStop:  m.OnStop,
	})

	return &m, nil
}

// OnStart listens on the configured address, records the bound address in the active class file
// and then begins handling incoming connections.
func (m *module) OnStart(ctx context.Context) error {
	if err := m.setup(); err != nil {
		return err
	}

	addr := m.ln.Addr().String()
	if err := m.activeFile.UpdateField(_outputKey, addr); err != nil {
		m.ln.Close()
		return fmt.Errorf("recording control address: %w", err)
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.served.Add(1)
	go m.start()
	m.logger.Infow("started JSON-RPC inbound", zap.String("address", addr))
	return nil
}

// OnStop closes every client connection and the listener, and waits for them to finish.
func (m *module) OnStop(ctx context.Context) error {
	if m.ln == nil {
		return nil
	}

	m.mu.Lock()
	m.stopping = true
	for conn := range m.conns {
		conn.Close()
	}
	m.mu.Unlock()

	err := m.ln.Close()

	m.served.Wait()
	m.cancel()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// ServeStream is called when a new connection is initiated. Requests received via the connection will be routed to the handler, and answered via the connection's replier.
func (m *module) ServeStream(ctx context.Context, conn jsonrpc2.Conn) error {
	if m.connectionMgr == nil {
		m.logger.Errorf("cannot serve connection, no connection manager set")
		return errors.New("cannot serve connection, no connection manager set")
	}

	// Start handling the connection.
	handler, err := m.connectionMgr.NewConnection(ctx, &conn)
	if err != nil {
		return err
	}
	m.logger.Infow("client connected", zap.Stringer("uuid", handler.UUID()))
	conn.Go(ctx, handler.HandleReq)

	// Block until the connection is closed.
	<-conn.Done()

	// Cleanup after connection.
	m.connectionMgr.RemoveConnection(ctx, handler.UUID())
	m.logger.Infow("client disconnected", zap.Stringer("uuid", handler.UUID()))

	return conn.Err()
}

// RegisterConnectionManager sets the connection manager, which keeps track of current active connections and provides a Router implementation.
func (m *module) RegisterConnectionManager(connectionMgr ConnectionManager) error {
	if m.connectionMgr != nil {
		return errors.New("cannot register a duplicate connection manager")
	}
	m.connectionMgr = connectionMgr
	return nil
}

// setup should be called after creation of a new handler to set initial values.
func (m *module) setup() error {
	if m.Address == "" {
		return errors.New("setup called before address is set")
	}

	addr, err := net.ResolveTCPAddr("tcp", m.Address)
	if err != nil {
		return err
	}

	m.ln, err = net.ListenTCP("tcp", addr)
	return err
}

// start accepts connections until the listener is closed, and panics on any other error.
func (m *module) start() {
	defer m.served.Done()

	for {
		nc, err := m.ln.Accept()
		if errors.Is(err, net.ErrClosed) {
			return
		}
		if err != nil {
			panic(err)
		}

		conn := jsonrpc2.NewConn(jsonrpc2.NewStream(nc))
		if !m.track(conn) {
			conn.Close()
			continue
		}
		m.served.Add(1)
		go func() {
			defer m.served.Done()
			defer m.untrack(conn)
			if err := m.ServeStream(m.ctx, conn); err != nil {
				m.logger.Debugw("connection ended", zap.Error(err))
			}
		}()
	}
}

// track registers a live connection. It reports false once the server is stopping.
func (m *module) track(conn jsonrpc2.Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopping {
		return false
	}
	m.conns[conn] = struct{}{}
	return true
}

func (m *module) untrack(conn jsonrpc2.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, conn)
}

// processConfig will parse the configuration for any values required by this module.
func (m *module) processConfig(cfg config.Provider) error {
	val := cfg.Get(_configKeyAddress)
	if err := val.Populate(&m.Address); err != nil {
		// incorrectly formatted config
		return fmt.Errorf("getting config field %q: %w", _configKeyAddress, err)
	}

	if m.Address == "" {
		// yaml is missing either the key or value
		return fmt.Errorf("missing field %q in config", _configKeyAddress)
	}

	return nil
}
