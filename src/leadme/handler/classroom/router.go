package classroom

import (
	"context"
	stderr "errors"

	controller "github.com/LuminationDev/leadme-classroom/src/leadme/controller/classroom"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/zap"
)

// Control endpoint methods.
const (
	MethodSessionGenerate     = "session/generate"
	MethodSessionEnd          = "session/end"
	MethodSessionCurrent      = "session/current"
	MethodRosterList          = "roster/list"
	MethodFollowerAction      = "follower/action"
	MethodFollowerBroadcast   = "follower/broadcast"
	MethodFollowerRemove      = "follower/remove"
	MethodFollowerEndSession  = "follower/endSession"
	MethodFollowerRename      = "follower/rename"
	MethodFollowerLock        = "follower/lock"
	MethodFollowerMute        = "follower/mute"
	MethodTabDelete           = "tab/delete"
	MethodTabMute             = "tab/mute"
	MethodTabActivate         = "tab/activate"
	MethodWebsiteLaunch       = "website/launch"
	MethodTasksShare          = "tasks/share"
	MethodTasksShareWebsite   = "tasks/shareWebsite"
	MethodMonitorRequest      = "monitor/request"
	MethodMonitorStop         = "monitor/stop"
	MethodContentApplications = "content/applications"
)

// Server-defined error codes.
const (
	CodeAuthFailed jsonrpc2.Code = -32001
	CodeNoSession  jsonrpc2.Code = -32002
)

type jsonRPCRouter struct {
	classroom controller.Controller
	uuid      uuid.UUID
	logger    *zap.SugaredLogger
	stats     tally.Scope
}

// HandleReq handles routing for a single request.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	r.stats.Counter("requests").Inc(1)

	switch req.Method() {
	// Session lifecycle.
	case MethodSessionGenerate:
		return r.GenerateSession(ctx, reply, req)

	case MethodSessionEnd:
		return r.EndSession(ctx, reply, req)

	case MethodSessionCurrent:
		return r.CurrentSession(ctx, reply, req)

	case MethodRosterList:
		return r.ListFollowers(ctx, reply, req)

	// Follower requests.
	case MethodFollowerAction:
		return r.FollowerAction(ctx, reply, req)

	case MethodFollowerBroadcast:
		return r.FollowerBroadcast(ctx, reply, req)

	case MethodFollowerRemove:
		return r.RemoveFollower(ctx, reply, req)

	case MethodFollowerEndSession:
		return r.EndFollowerSession(ctx, reply, req)

	case MethodFollowerRename:
		return r.RenameFollower(ctx, reply, req)

	case MethodFollowerLock:
		return r.LockFollower(ctx, reply, req)

	case MethodFollowerMute:
		return r.MuteFollower(ctx, reply, req)

	// Tab requests.
	case MethodTabDelete:
		return r.DeleteTab(ctx, reply, req)

	case MethodTabMute:
		return r.MuteTab(ctx, reply, req)

	case MethodTabActivate:
		return r.ActivateTab(ctx, reply, req)

	case MethodWebsiteLaunch:
		return r.LaunchWebsite(ctx, reply, req)

	// Content.
	case MethodTasksShare:
		return r.ShareTasks(ctx, reply, req)

	case MethodTasksShareWebsite:
		return r.ShareWebsite(ctx, reply, req)

	case MethodContentApplications:
		return r.CollectContent(ctx, reply, req)

	// Monitoring.
	case MethodMonitorRequest:
		return r.RequestMonitor(ctx, reply, req)

	case MethodMonitorStop:
		return r.StopMonitoring(ctx, reply, req)
	}

	r.stats.Counter("method_not_found").Inc(1)
	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}

// UUID returns the id of the connection served by this router.
func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}

// respond replies with result, or with err translated into a JSON-RPC error.
func (r *jsonRPCRouter) respond(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request, result interface{}, err error) error {
	if err == nil {
		return reply(ctx, result, nil)
	}
	rpcErr := toRPCError(err)
	r.stats.Tagged(map[string]string{"method": req.Method()}).Counter("errors").Inc(1)
	r.logger.Debugw("request failed", "method", req.Method(), "code", rpcErr.Code, "error", err)
	return reply(ctx, nil, rpcErr)
}

// invalidParams replies to a request whose parameters could not be decoded.
func (r *jsonRPCRouter) invalidParams(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request, err error) error {
	return r.respond(ctx, reply, req, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
}

func toRPCError(err error) *jsonrpc2.Error {
	var rpcErr *jsonrpc2.Error
	if stderr.As(err, &rpcErr) {
		return rpcErr
	}
	if code, ok := errors.AuthCode(err); ok {
		return jsonrpc2.NewError(CodeAuthFailed, errors.AuthMessage(code))
	}

	var noSession *errors.NoActiveSessionError
	var active *errors.SessionActiveError
	switch {
	case errors.IsBadRequest(err):
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
	case stderr.As(err, &noSession):
		return jsonrpc2.NewError(CodeNoSession, err.Error())
	case stderr.As(err, &active):
		return jsonrpc2.NewError(jsonrpc2.InvalidRequest, err.Error())
	}
	if _, ok := errors.NotFoundFollower(err); ok {
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
	}
	return jsonrpc2.NewError(jsonrpc2.InternalError, err.Error())
}
