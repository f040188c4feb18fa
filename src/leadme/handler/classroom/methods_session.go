package classroom

import (
	"context"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/mapper"
	"go.lsp.dev/jsonrpc2"
)

// GenerateSession starts a new class session and replies with its class code.
func (r *jsonRPCRouter) GenerateSession(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s, err := r.classroom.GenerateSession(ctx)
	if err != nil {
		return r.respond(ctx, reply, req, nil, err)
	}
	return reply(ctx, mapper.SessionToView(s, true), nil)
}

// EndSession ends the running class session.
func (r *jsonRPCRouter) EndSession(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	err := r.classroom.EndSession(ctx)
	return r.respond(ctx, reply, req, nil, err)
}

// CurrentSession replies with the running class session, if any.
func (r *jsonRPCRouter) CurrentSession(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s, ok := r.classroom.Current(ctx)
	return reply(ctx, mapper.SessionToView(s, ok), nil)
}

// ListFollowers replies with the roster of one follower type.
func (r *jsonRPCRouter) ListFollowers(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToListParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	followers, err := r.classroom.Followers(ctx, entity.FollowerType(params.Type))
	if err != nil {
		return r.respond(ctx, reply, req, nil, err)
	}
	return reply(ctx, mapper.FollowersToViews(followers), nil)
}
