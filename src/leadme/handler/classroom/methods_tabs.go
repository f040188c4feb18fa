package classroom

import (
	"context"

	"github.com/LuminationDev/leadme-classroom/src/leadme/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/multierr"
)

// DeleteTab asks a web follower to close one of its tabs.
func (r *jsonRPCRouter) DeleteTab(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToTabParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	err = r.classroom.RequestDeleteFollowerTab(ctx, params.UniqueID, params.TabID)
	return r.respond(ctx, reply, req, nil, err)
}

// MuteTab asks a web follower to mute or unmute one of its tabs.
func (r *jsonRPCRouter) MuteTab(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToTabParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	err = r.classroom.RequestUpdateMutingTab(ctx, params.UniqueID, params.TabID, params.Mute)
	return r.respond(ctx, reply, req, nil, err)
}

// ActivateTab asks a web follower to bring one of its tabs to the front.
func (r *jsonRPCRouter) ActivateTab(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToTabParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	err = r.classroom.RequestActiveTab(ctx, params.UniqueID, params.TabID)
	return r.respond(ctx, reply, req, nil, err)
}

// LaunchWebsite opens a link on the listed web followers, or on all of them.
func (r *jsonRPCRouter) LaunchWebsite(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToWebsiteParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	if len(params.UniqueIDs) == 0 {
		err = r.classroom.LaunchWebsite(ctx, params.Link)
		return r.respond(ctx, reply, req, nil, err)
	}
	for _, id := range params.UniqueIDs {
		err = multierr.Append(err, r.classroom.LaunchWebsiteIndividual(ctx, id, params.Link))
	}
	return r.respond(ctx, reply, req, nil, err)
}
