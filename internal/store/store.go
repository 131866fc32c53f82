// Package store owns the in-memory project collection.
//
// KEY CONCEPTS:
//   - Snapshot: the records plus loading/error/message flags. Only Store
//     methods change it; readers get copies.
//   - Sequence guard: every FetchAll is numbered when issued. Only the most
//     recently issued fetch may replace the snapshot, so a slow earlier
//     response can never overwrite a newer one.
//   - Errors as state: operations report failure through Snapshot().Err and
//     a nil/false result, the way the admin pages consume them.
package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/gateway"
	"github.com/sakif/studio-site/internal/model"
)

// Confirmation messages shown after successful mutations.
const (
	MsgCreated = "Project created successfully!"
	MsgUpdated = "Project updated successfully!"
	MsgDeleted = "Project deleted successfully!"
)

// Gateway is the subset of the API client the store needs.
type Gateway interface {
	List(ctx context.Context) ([]model.Project, error)
	Get(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, payload gateway.ProjectPayload) (*model.Project, error)
	Update(ctx context.Context, id string, payload gateway.ProjectPayload) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}

var _ Gateway = (*gateway.Client)(nil)

// Snapshot is a point-in-time copy of the store's state.
type Snapshot struct {
	Records []model.Project
	Loading bool
	Err     string
	Message string
}

// Store holds the project collection. It is safe for concurrent use.
type Store struct {
	gw     Gateway
	logger *slog.Logger
	group  singleflight.Group

	mu       sync.Mutex
	records  []model.Project
	inflight int
	seq      uint64 // last issued FetchAll
	err      string
	message  string

	subs   map[int]func(Snapshot)
	nextID int
}

// New creates a Store backed by gw. A nil logger discards output.
func New(gw Gateway, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		gw:      gw,
		logger:  logger,
		records: []model.Project{},
		subs:    make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Records: slices.Clone(s.records),
		Loading: s.inflight > 0,
		Err:     s.err,
		Message: s.message,
	}
}

// Subscribe registers fn to be called with a fresh snapshot after every
// state change. Callbacks run on the goroutine that made the change, outside
// the store's lock. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// commit applies mutate under the lock and then notifies subscribers.
func (s *Store) commit(mutate func()) {
	s.mu.Lock()
	mutate()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// ClearError drops the stored error message.
func (s *Store) ClearError() {
	s.commit(func() { s.err = "" })
}

// ClearMessage drops the stored confirmation message.
func (s *Store) ClearMessage() {
	s.commit(func() { s.message = "" })
}

// FetchAll loads the whole collection. On success the snapshot is replaced
// and the records are returned. On failure the previous records are kept,
// the error is stored and nil is returned.
//
// If another FetchAll was issued after this one, this call's outcome is
// discarded and nil is returned.
func (s *Store) FetchAll(ctx context.Context) []model.Project {
	var seq uint64
	s.commit(func() {
		s.seq++
		seq = s.seq
		s.inflight++
	})

	records, err := s.gw.List(ctx)

	var (
		out   []model.Project
		stale bool
	)
	s.commit(func() {
		s.inflight--
		if stale = seq != s.seq; stale {
			return
		}
		if err != nil {
			s.recordErrLocked(err, gateway.MsgList)
			return
		}
		s.records = slices.Clone(records)
		if s.records == nil {
			s.records = []model.Project{}
		}
		s.err = ""
		out = records
	})
	if stale {
		s.logger.Debug("discarded stale fetch", slog.Uint64("seq", seq))
		return nil
	}
	if err != nil {
		s.logFailure("fetch projects", err)
	}
	return out
}

// FetchOne loads a single project without touching the collection.
// Concurrent calls for the same id share one request. The shared request is
// not tied to any one caller's cancellation; a caller whose ctx ends stops
// waiting and gets nil, the others still receive the result.
func (s *Store) FetchOne(ctx context.Context, id string) *model.Project {
	s.commit(func() { s.inflight++ })

	flight := s.group.DoChan(id, func() (any, error) {
		return s.gw.Get(context.WithoutCancel(ctx), id)
	})

	var (
		v   any
		err error
	)
	select {
	case res := <-flight:
		v, err = res.Val, res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}

	s.commit(func() {
		s.inflight--
		if err != nil {
			s.recordErrLocked(err, gateway.MsgGet)
			return
		}
		s.err = ""
	})
	if err != nil {
		s.logFailure("fetch project", err, slog.String("id", id))
		return nil
	}
	shared, _ := v.(*model.Project)
	if shared == nil {
		return nil
	}
	// Callers of a shared flight get their own copy.
	p := *shared
	p.OtherImages = slices.Clone(p.OtherImages)
	return &p
}

// Create submits a new project and returns the backend's record. The
// collection is not patched; callers refetch to pick up server ordering.
func (s *Store) Create(ctx context.Context, payload gateway.ProjectPayload) *model.Project {
	s.commit(func() { s.inflight++ })
	p, err := s.gw.Create(ctx, payload)

	s.commit(func() {
		s.inflight--
		if err != nil {
			s.recordErrLocked(err, gateway.MsgCreate)
			return
		}
		s.err = ""
		s.message = MsgCreated
	})
	if err != nil {
		s.logFailure("create project", err)
		return nil
	}
	return p
}

// Update submits changes to a project. When the project is in the
// collection it is replaced wholesale by the backend's record.
func (s *Store) Update(ctx context.Context, id string, payload gateway.ProjectPayload) *model.Project {
	s.commit(func() { s.inflight++ })
	p, err := s.gw.Update(ctx, id, payload)

	s.commit(func() {
		s.inflight--
		if err != nil {
			s.recordErrLocked(err, gateway.MsgUpdate)
			return
		}
		if i := s.indexLocked(id); i >= 0 && p != nil {
			s.records[i] = *p
		}
		s.err = ""
		s.message = MsgUpdated
	})
	if err != nil {
		s.logFailure("update project", err, slog.String("id", id))
		return nil
	}
	return p
}

// Remove deletes a project and drops it from the collection.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.commit(func() { s.inflight++ })
	err := s.gw.Delete(ctx, id)

	s.commit(func() {
		s.inflight--
		if err != nil {
			s.recordErrLocked(err, gateway.MsgDelete)
			return
		}
		s.records = slices.DeleteFunc(s.records, func(p model.Project) bool {
			return p.ID == id
		})
		s.err = ""
		s.message = MsgDeleted
	})
	if err != nil {
		s.logFailure("delete project", err, slog.String("id", id))
		return false
	}
	return true
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.records, func(p model.Project) bool {
		return p.ID == id
	})
}

// recordErrLocked stores err for display. A cancelled caller is not shown:
// the view that asked has gone away.
func (s *Store) recordErrLocked(err error, def string) {
	if isCancelled(err) {
		return
	}
	s.err = apperror.Message(err, def)
}

func (s *Store) logFailure(op string, err error, attrs ...any) {
	if isCancelled(err) {
		s.logger.Debug(op+" cancelled", attrs...)
		return
	}
	args := append([]any{slog.String("error", err.Error())}, attrs...)
	s.logger.Warn(op+" failed", args...)
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
