package blob

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type object struct {
	contentType string
	data        []byte
}

// Memory is a Store held in process memory.
type Memory struct {
	mu      sync.Mutex
	objects map[string]object
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]object)}
}

// Put stores an object.
func (m *Memory) Put(name, contentType string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = object{contentType: contentType, data: append([]byte(nil), data...)}
}

// Fetch returns the object as a data URL.
func (m *Memory) Fetch(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.objects[name]
	if !ok {
		return "", fmt.Errorf("object %q does not exist", name)
	}
	return DataURL(o.contentType, o.data), nil
}

// Exists reports whether the object is present.
func (m *Memory) Exists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[name]
	return ok, nil
}

// DeletePrefix removes every object under prefix.
func (m *Memory) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for name := range m.objects {
		if strings.HasPrefix(name, prefix) {
			delete(m.objects, name)
			n++
		}
	}
	return n, nil
}

// Names lists stored object names in order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.objects))
	for name := range m.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
