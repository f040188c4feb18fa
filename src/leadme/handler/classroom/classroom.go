// Package classroom implements the leader's JSON-RPC control endpoint.
package classroom

import (
	"context"
	"fmt"
	"sync"

	controller "github.com/LuminationDev/leadme-classroom/src/leadme/controller/classroom"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/jsonrpcfx"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/zap"
)

// Handler exposes the state of the control endpoint.
type Handler interface {
	// Connections returns the number of open control connections.
	Connections() int
}

type handler struct {
	classroom         controller.Controller
	connectionManager *jsonRPCConnectionManager
}

// New constructs a new control endpoint Handler and registers it with the JSON-RPC module.
func New(ctrl controller.Controller, jsonrpcmod jsonrpcfx.JSONRPCModule, logger *zap.SugaredLogger, stats tally.Scope) (Handler, error) {
	c := jsonRPCConnectionManager{
		ctrl:   ctrl,
		logger: logger.With("handler", "classroom"),
		stats:  stats.SubScope("json_rpc"),
		conns:  make(map[uuid.UUID]struct{}),
	}
	if err := jsonrpcmod.RegisterConnectionManager(&c); err != nil {
		return nil, fmt.Errorf("registering control connections: %w", err)
	}

	return &handler{
		classroom:         ctrl,
		connectionManager: &c,
	}, nil
}

func (h *handler) Connections() int {
	return h.connectionManager.count()
}

type jsonRPCConnectionManager struct {
	ctrl   controller.Controller
	logger *zap.SugaredLogger
	stats  tally.Scope

	mu    sync.Mutex
	conns map[uuid.UUID]struct{}
}

// NewConnection assigns an id to a new connection and returns a router bound to it.
func (c *jsonRPCConnectionManager) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router jsonrpcfx.Router, err error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	c.mu.Lock()
	c.conns[id] = struct{}{}
	c.stats.Gauge("connections").Update(float64(len(c.conns)))
	c.mu.Unlock()

	r := jsonRPCRouter{
		classroom: c.ctrl,
		uuid:      id,
		logger:    c.logger.With("connection", id.String()),
		stats:     c.stats,
	}

	return &r, nil
}

// RemoveConnection forgets a closed connection.
func (c *jsonRPCConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, id)
	c.stats.Gauge("connections").Update(float64(len(c.conns)))
}

func (c *jsonRPCConnectionManager) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conns)
}
