package classroom

import (
	"context"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/mapper"
	"github.com/LuminationDev/leadme-classroom/src/leadme/model"
	"go.lsp.dev/jsonrpc2"
)

// ShareTasks assigns tasks to the listed followers, or to every connected follower.
func (r *jsonRPCRouter) ShareTasks(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, tasks, err := mapper.RequestToShareTasksParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	shared, err := r.classroom.ShareTasks(ctx, tasks, params.UniqueIDs)
	if err != nil {
		return r.respond(ctx, reply, req, nil, err)
	}
	return reply(ctx, model.ShareResult{Shared: shared}, nil)
}

// ShareWebsite assigns a link as a task to the listed followers, or to every connected follower.
func (r *jsonRPCRouter) ShareWebsite(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToWebsiteParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	shared, err := r.classroom.ShareWebsite(ctx, params.Link, params.UniqueIDs)
	if err != nil {
		return r.respond(ctx, reply, req, nil, err)
	}
	return reply(ctx, model.ShareResult{Shared: shared}, nil)
}

// CollectContent replies with the applications and videos available on mobile followers.
func (r *jsonRPCRouter) CollectContent(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	apps, err := r.classroom.CollectUniqueApplications(ctx)
	if err != nil {
		return r.respond(ctx, reply, req, nil, err)
	}
	videos, err := r.classroom.CollectUniqueVideos(ctx)
	if err != nil {
		return r.respond(ctx, reply, req, nil, err)
	}
	return reply(ctx, model.ContentView{
		Applications: mapper.ApplicationsToRecords(apps),
		Videos:       mapper.VideosToRecords(videos),
	}, nil)
}

// RequestMonitor asks a follower for permission to watch its screen.
func (r *jsonRPCRouter) RequestMonitor(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToFollowerParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	err = r.classroom.RequestMonitor(ctx, params.UniqueID)
	return r.respond(ctx, reply, req, nil, err)
}

// StopMonitoring stops watching a follower's screen.
func (r *jsonRPCRouter) StopMonitoring(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToFollowerParams(req)
	if err != nil {
		return r.invalidParams(ctx, reply, req, err)
	}

	err = r.classroom.StopMonitoring(ctx, entity.FollowerType(params.Type), params.UniqueID)
	return r.respond(ctx, reply, req, nil, err)
}
