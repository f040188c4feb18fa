package roster

import (
	"context"
	"sync"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	tally "github.com/uber-go/tally/v4"
)

// Repository holds the local mirror of the followers of the active class session.
// Followers are kept in arrival order per type. Returned followers are copies.
type Repository interface {
	// Add inserts f unless a live follower with the same id and type exists. A follower that was
	// marked disconnected is replaced. It reports whether f was inserted.
	Add(ctx context.Context, f *entity.Follower) (bool, error)
	Get(ctx context.Context, t entity.FollowerType, uniqueID string) (*entity.Follower, error)
	// Update applies fn to the stored follower under the repository lock.
	Update(ctx context.Context, t entity.FollowerType, uniqueID string, fn func(*entity.Follower)) error
	List(ctx context.Context, t entity.FollowerType) ([]*entity.Follower, error)
	// MarkDisconnected soft-deletes a follower.
	MarkDisconnected(ctx context.Context, t entity.FollowerType, uniqueID string) error
	// Evict removes a follower from the mirror.
	Evict(ctx context.Context, t entity.FollowerType, uniqueID string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context, t entity.FollowerType) (int, error)
}

type repository struct {
	mu       sync.Mutex
	memstore map[entity.FollowerType][]*entity.Follower
	stats    tally.Scope
}

// New returns a repository to an in-memory follower store.
func New(stats tally.Scope) Repository {
	r := &repository{
		memstore: make(map[entity.FollowerType][]*entity.Follower),
		stats:    stats.SubScope("roster"),
	}
	r.updateMetrics()
	return r
}

func (r *repository) Add(ctx context.Context, f *entity.Follower) (bool, error) {
	if f == nil {
		return false, errors.New("can't save nil follower")
	}
	if !f.Type.Valid() {
		return false, errors.UnknownFollowerTypeError
	}
	if f.UniqueID == "" {
		return false, errors.NoFollowerIDError
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.memstore[f.Type]
	if i := index(list, f.UniqueID); i >= 0 {
		if !list[i].Disconnected {
			return false, nil
		}
		list[i] = f.Clone()
		return true, nil
	}
	r.memstore[f.Type] = append(list, f.Clone())
	r.updateMetrics()
	return true, nil
}

func (r *repository) Get(ctx context.Context, t entity.FollowerType, uniqueID string) (*entity.Follower, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.find(t, uniqueID)
	if err != nil {
		return nil, err
	}
	return f.Clone(), nil
}

func (r *repository) Update(ctx context.Context, t entity.FollowerType, uniqueID string, fn func(*entity.Follower)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.find(t, uniqueID)
	if err != nil {
		return err
	}
	fn(f)
	return nil
}

func (r *repository) List(ctx context.Context, t entity.FollowerType) ([]*entity.Follower, error) {
	if !t.Valid() {
		return nil, errors.UnknownFollowerTypeError
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.memstore[t]
	out := make([]*entity.Follower, 0, len(list))
	for _, f := range list {
		out = append(out, f.Clone())
	}
	return out, nil
}

func (r *repository) MarkDisconnected(ctx context.Context, t entity.FollowerType, uniqueID string) error {
	return r.Update(ctx, t, uniqueID, func(f *entity.Follower) { f.Disconnected = true })
}

func (r *repository) Evict(ctx context.Context, t entity.FollowerType, uniqueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !t.Valid() {
		return errors.UnknownFollowerTypeError
	}
	list := r.memstore[t]
	i := index(list, uniqueID)
	if i < 0 {
		return &errors.FollowerNotFoundError{Type: string(t), ID: uniqueID}
	}
	r.memstore[t] = append(list[:i:i], list[i+1:]...)
	r.updateMetrics()
	return nil
}

func (r *repository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.memstore = make(map[entity.FollowerType][]*entity.Follower)
	r.updateMetrics()
	return nil
}

func (r *repository) Count(ctx context.Context, t entity.FollowerType) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.memstore[t]), nil
}

// find returns the stored follower. Callers hold r.mu.
func (r *repository) find(t entity.FollowerType, uniqueID string) (*entity.Follower, error) {
	if !t.Valid() {
		return nil, errors.UnknownFollowerTypeError
	}
	list := r.memstore[t]
	i := index(list, uniqueID)
	if i < 0 {
		return nil, &errors.FollowerNotFoundError{Type: string(t), ID: uniqueID}
	}
	return list[i], nil
}

func (r *repository) updateMetrics() {
	r.stats.Gauge("web_followers").Update(float64(len(r.memstore[entity.FollowerWeb])))
	r.stats.Gauge("mobile_followers").Update(float64(len(r.memstore[entity.FollowerMobile])))
}

func index(list []*entity.Follower, uniqueID string) int {
	for i, f := range list {
		if f.UniqueID == uniqueID {
			return i
		}
	}
	return -1
}
