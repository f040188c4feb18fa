package classroom

import (
	"context"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/mapper"
	"go.lsp.dev/jsonrpc2"
)

// FollowerAction sends a request envelope to a single follower.
func (r *jsonRPCRouter) FollowerAction(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, env, err := mapper.RequestToActionParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}
	if params.UniqueID == "" {
		return r.respond(ctx, reply, req, nil, errors.NoFollowerIDError)
	}

	err = r.classroom.RequestIndividualAction(ctx, entity.FollowerType(params.Type), params.UniqueID, env)
	return r.respond(ctx, reply, req, nil, err)
}

// FollowerBroadcast sends a request envelope to every follower of a type.
func (r *jsonRPCRouter) FollowerBroadcast(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, env, err := mapper.RequestToActionParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	err = r.classroom.RequestAction(ctx, entity.FollowerType(params.Type), env)
	return r.respond(ctx, reply, req, nil, err)
}

// RemoveFollower evicts a follower from the session.
func (r *jsonRPCRouter) RemoveFollower(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToFollowerParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	err = r.classroom.RemoveFollower(ctx, entity.FollowerType(params.Type), params.UniqueID)
	return r.respond(ctx, reply, req, nil, err)
}

// EndFollowerSession tells a follower it was removed by the leader.
func (r *jsonRPCRouter) EndFollowerSession(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToFollowerParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	err = r.classroom.EndIndividualSession(ctx, entity.FollowerType(params.Type), params.UniqueID)
	return r.respond(ctx, reply, req, nil, err)
}

// RenameFollower changes a follower's display name.
func (r *jsonRPCRouter) RenameFollower(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToRenameParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	err = r.classroom.RenameFollower(ctx, entity.FollowerType(params.Type), params.UniqueID, params.Name)
	return r.respond(ctx, reply, req, nil, err)
}

// LockFollower locks or unlocks a follower's screen.
func (r *jsonRPCRouter) LockFollower(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToLockParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	err = r.classroom.LockScreens(ctx, entity.FollowerType(params.Type), params.UniqueID, params.Lock)
	return r.respond(ctx, reply, req, nil, err)
}

// MuteFollower mutes or unmutes a follower's audio.
func (r *jsonRPCRouter) MuteFollower(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToMuteParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	err = r.classroom.MuteSound(ctx, entity.FollowerType(params.Type), params.UniqueID, params.Mute)
	return r.respond(ctx, reply, req, nil, err)
}
