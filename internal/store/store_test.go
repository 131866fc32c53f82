package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/gateway"
	"github.com/sakif/studio-site/internal/model"
)

// mockGateway is a testify mock for Gateway.
type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) List(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]model.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) Get(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*model.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) Create(ctx context.Context, payload gateway.ProjectPayload) (*model.Project, error) {
	args := m.Called(ctx, payload)
	if p, ok := args.Get(0).(*model.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) Update(ctx context.Context, id string, payload gateway.ProjectPayload) (*model.Project, error) {
	args := m.Called(ctx, id, payload)
	if p, ok := args.Get(0).(*model.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func projects(ids ...string) []model.Project {
	out := make([]model.Project, len(ids))
	for i, id := range ids {
		out[i] = model.Project{ID: id, Title: "Project " + id}
	}
	return out
}

func ids(ps []model.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestFetchAll_ReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	gw.On("List", ctx).Return(projects("c", "a", "b"), nil).Once()

	s := New(gw, nil)
	got := s.FetchAll(ctx)

	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
	snap := s.Snapshot()
	assert.Equal(t, []string{"c", "a", "b"}, ids(snap.Records))
	assert.Empty(t, snap.Err)
	assert.False(t, snap.Loading)
	gw.AssertExpectations(t)
}

func TestFetchAll_FailureKeepsLastGood(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	gw.On("List", ctx).Return(projects("a", "b"), nil).Once()
	gw.On("List", ctx).Return(nil, apperror.Network(gateway.MsgList, nil)).Once()

	s := New(gw, nil)
	require.Len(t, s.FetchAll(ctx), 2)

	assert.Nil(t, s.FetchAll(ctx))
	snap := s.Snapshot()
	assert.Equal(t, []string{"a", "b"}, ids(snap.Records))
	assert.Equal(t, "Error fetching projects", snap.Err)
	assert.False(t, snap.Loading)
}

func TestFetchAll_SuccessClearsError(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	gw.On("List", ctx).Return(nil, apperror.HTTPStatus(500, "database down")).Once()
	gw.On("List", ctx).Return(projects("a"), nil).Once()

	s := New(gw, nil)
	s.FetchAll(ctx)
	assert.Equal(t, "database down", s.Snapshot().Err)

	s.FetchAll(ctx)
	assert.Empty(t, s.Snapshot().Err)
}

// blockingGateway hands every List call to the test, which decides when and
// how it completes.
type blockingGateway struct {
	mockGateway
	calls chan chan listResult
}

type listResult struct {
	records []model.Project
	err     error
}

func (g *blockingGateway) List(ctx context.Context) ([]model.Project, error) {
	reply := make(chan listResult)
	g.calls <- reply
	select {
	case r := <-reply:
		return r.records, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestFetchAll_OutOfOrderCompletionIsDiscarded(t *testing.T) {
	gw := &blockingGateway{calls: make(chan chan listResult)}
	s := New(gw, nil)
	ctx := context.Background()

	results := make([][]model.Project, 2)
	var wg sync.WaitGroup

	// Issue A, and wait until it reaches the gateway before issuing B.
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = s.FetchAll(ctx)
	}()
	replyA := <-gw.calls

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1] = s.FetchAll(ctx)
	}()
	replyB := <-gw.calls

	// B resolves first, then A.
	replyB <- listResult{records: projects("b1", "b2")}
	require.Eventually(t, func() bool {
		return len(s.Snapshot().Records) == 2
	}, time.Second, time.Millisecond)
	assert.True(t, s.Snapshot().Loading, "A is still in flight")

	replyA <- listResult{records: projects("a1")}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, []string{"b1", "b2"}, ids(snap.Records))
	assert.False(t, snap.Loading)
	assert.Nil(t, results[0], "stale call reports nothing")
	assert.Equal(t, []string{"b1", "b2"}, ids(results[1]))
}

func TestFetchAll_StaleFailureDoesNotSetError(t *testing.T) {
	gw := &blockingGateway{calls: make(chan chan listResult)}
	s := New(gw, nil)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		s.FetchAll(ctx)
		close(done)
	}()
	replyA := <-gw.calls

	doneB := make(chan struct{})
	go func() {
		s.FetchAll(ctx)
		close(doneB)
	}()
	replyB := <-gw.calls
	replyB <- listResult{records: projects("b")}
	<-doneB

	replyA <- listResult{err: apperror.Network(gateway.MsgList, nil)}
	<-done

	assert.Empty(t, s.Snapshot().Err)
	assert.Equal(t, []string{"b"}, ids(s.Snapshot().Records))
}

func TestFetchAll_CancelledCallerLeavesNoError(t *testing.T) {
	gw := &blockingGateway{calls: make(chan chan listResult)}
	s := New(gw, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan []model.Project)
	go func() { done <- s.FetchAll(ctx) }()

	<-gw.calls
	cancel()

	assert.Nil(t, <-done)
	snap := s.Snapshot()
	assert.Empty(t, snap.Err)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Records)
}

func TestFetchOne_DoesNotTouchCollection(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	gw.On("List", ctx).Return(projects("a"), nil)
	gw.On("Get", mock.Anything, "z").Return(&model.Project{ID: "z", Title: "Zed"}, nil)
	gw.On("Get", mock.Anything, "missing").Return(nil, apperror.HTTPStatus(404, "Project not found"))

	s := New(gw, nil)
	s.FetchAll(ctx)

	p := s.FetchOne(ctx, "z")
	require.NotNil(t, p)
	assert.Equal(t, "Zed", p.Title)
	assert.Equal(t, []string{"a"}, ids(s.Snapshot().Records))

	assert.Nil(t, s.FetchOne(ctx, "missing"))
	assert.Equal(t, "Project not found", s.Snapshot().Err)
	assert.Equal(t, []string{"a"}, ids(s.Snapshot().Records))
}

// countingGateway blocks Get until released and counts the calls.
type countingGateway struct {
	mockGateway
	gets    atomic.Int32
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *countingGateway) Get(ctx context.Context, id string) (*model.Project, error) {
	g.gets.Add(1)
	g.once.Do(func() { close(g.entered) })
	<-g.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &model.Project{ID: id}, nil
}

func TestFetchOne_SharesConcurrentRequests(t *testing.T) {
	gw := &countingGateway{entered: make(chan struct{}), release: make(chan struct{})}
	s := New(gw, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	got := make([]*model.Project, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		got[0] = s.FetchOne(ctx, "p1")
	}()
	<-gw.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		got[1] = s.FetchOne(ctx, "p1")
	}()
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.inflight == 2
	}, time.Second, time.Millisecond)
	// Give the second caller time to join the flight.
	time.Sleep(50 * time.Millisecond)

	close(gw.release)
	wg.Wait()

	assert.Equal(t, int32(1), gw.gets.Load())
	require.NotNil(t, got[0])
	require.NotNil(t, got[1])
	assert.NotSame(t, got[0], got[1])
}

func TestFetchOne_CancelledCallerDoesNotFailOthers(t *testing.T) {
	gw := &countingGateway{entered: make(chan struct{}), release: make(chan struct{})}
	s := New(gw, nil)

	first, cancel := context.WithCancel(context.Background())
	defer cancel()

	firstDone := make(chan *model.Project, 1)
	go func() { firstDone <- s.FetchOne(first, "p1") }()
	<-gw.entered

	secondDone := make(chan *model.Project, 1)
	go func() { secondDone <- s.FetchOne(context.Background(), "p1") }()
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.inflight == 2
	}, time.Second, time.Millisecond)
	// Give the second caller time to join the flight.
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case p := <-firstDone:
		assert.Nil(t, p)
	case <-time.After(time.Second):
		t.Fatalf("cancelled caller still waiting on the shared request")
	}
	assert.Empty(t, s.Snapshot().Err)

	close(gw.release)
	select {
	case p := <-secondDone:
		require.NotNil(t, p)
		assert.Equal(t, "p1", p.ID)
	case <-time.After(time.Second):
		t.Fatalf("second caller never returned")
	}

	assert.Equal(t, int32(1), gw.gets.Load())
	snap := s.Snapshot()
	assert.Empty(t, snap.Err)
	assert.False(t, snap.Loading)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	payload := gateway.ProjectPayload{Title: "New"}

	gw := &mockGateway{}
	gw.On("Create", ctx, payload).Return(&model.Project{ID: "n1", Title: "New"}, nil).Once()
	gw.On("Create", ctx, payload).Return(nil, apperror.ValidationFailed("", "Title is required")).Once()

	s := New(gw, nil)
	p := s.Create(ctx, payload)
	require.NotNil(t, p)
	assert.Equal(t, "n1", p.ID)
	assert.Equal(t, MsgCreated, s.Snapshot().Message)
	assert.Empty(t, s.Snapshot().Records, "create does not patch the collection")

	assert.Nil(t, s.Create(ctx, payload))
	assert.Equal(t, "Title is required", s.Snapshot().Err)
}

func TestUpdate_PatchesInPlace(t *testing.T) {
	ctx := context.Background()
	payload := gateway.ProjectPayload{Title: "Renamed"}

	gw := &mockGateway{}
	gw.On("List", ctx).Return(projects("a", "b", "c"), nil)
	gw.On("Update", ctx, "b", payload).Return(&model.Project{ID: "b", Title: "Renamed"}, nil)
	gw.On("Update", ctx, "x", payload).Return(&model.Project{ID: "x", Title: "Renamed"}, nil)

	s := New(gw, nil)
	s.FetchAll(ctx)

	require.NotNil(t, s.Update(ctx, "b", payload))
	snap := s.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, ids(snap.Records))
	assert.Equal(t, "Renamed", snap.Records[1].Title)
	assert.Equal(t, MsgUpdated, snap.Message)

	require.NotNil(t, s.Update(ctx, "x", payload))
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Snapshot().Records), "unknown id is not appended")
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	gw.On("List", ctx).Return(projects("a", "b", "c"), nil)
	gw.On("Delete", ctx, "b").Return(nil)
	gw.On("Delete", ctx, "c").Return(apperror.HTTPStatus(500, "Error deleting project"))

	s := New(gw, nil)
	s.FetchAll(ctx)

	assert.True(t, s.Remove(ctx, "b"))
	assert.Equal(t, []string{"a", "c"}, ids(s.Snapshot().Records))
	assert.Equal(t, MsgDeleted, s.Snapshot().Message)

	assert.False(t, s.Remove(ctx, "c"))
	assert.Equal(t, []string{"a", "c"}, ids(s.Snapshot().Records))
	assert.Equal(t, "Error deleting project", s.Snapshot().Err)

	s.ClearError()
	s.ClearMessage()
	assert.Empty(t, s.Snapshot().Err)
	assert.Empty(t, s.Snapshot().Message)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	gw.On("List", ctx).Return(projects("a"), nil)

	s := New(gw, nil)

	var loadingSeen, recordsSeen bool
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		if snap.Loading {
			loadingSeen = true
		}
		if len(snap.Records) == 1 && !snap.Loading {
			recordsSeen = true
		}
	})

	s.FetchAll(ctx)
	assert.True(t, loadingSeen)
	assert.True(t, recordsSeen)

	var calls int
	unsubscribe2 := s.Subscribe(func(Snapshot) { calls++ })
	unsubscribe()
	unsubscribe2()
	unsubscribe2()
	s.ClearError()
	assert.Equal(t, 0, calls)
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	gw.On("List", ctx).Return(projects("a"), nil)

	s := New(gw, nil)
	s.FetchAll(ctx)

	snap := s.Snapshot()
	snap.Records[0].Title = "mutated"
	assert.Equal(t, "Project a", s.Snapshot().Records[0].Title)
}
