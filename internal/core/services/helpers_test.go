package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var art = time.FixedZone("ART", -3*60*60)

func ptr[T any](v T) *T {
	return &v
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(days int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, days)
}

type countingListener struct {
	mu    sync.Mutex
	calls int
}

func (l *countingListener) OnChange() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
}

func (l *countingListener) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type fixture struct {
	clock    *fakeClock
	store    repository.Store
	subjects *services.SubjectService
	tasks    *services.TaskService
}

// newFixture starts on Saturday 2026-10-17 10:00 ART with an empty store.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := newFakeClock(time.Date(2026, 10, 17, 10, 0, 0, 0, art))
	store := repository.NewSessionStore()

	return &fixture{
		clock:    clock,
		store:    store,
		subjects: services.NewSubjectService(store.Subjects, store.Progress, domain.DefaultSchedule(), nil, clock.Now),
		tasks:    services.NewTaskService(store.Tasks, clock.Now),
	}
}

func (f *fixture) seed(t *testing.T) {
	t.Helper()
	require.NoError(t, f.subjects.Seed(context.Background()))
}

type MockSubjectRepo struct {
	mock.Mock
}

func (m *MockSubjectRepo) List(ctx context.Context) ([]*domain.Subject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Subject), args.Error(1)
}

func (m *MockSubjectRepo) GetByName(ctx context.Context, name string) (*domain.Subject, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subject), args.Error(1)
}

func (m *MockSubjectRepo) Save(ctx context.Context, s *domain.Subject) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type MockTaskRepo struct {
	mock.Mock
}

func (m *MockTaskRepo) List(ctx context.Context) ([]*domain.ImportantTask, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ImportantTask), args.Error(1)
}

func (m *MockTaskRepo) GetByID(ctx context.Context, id string) (*domain.ImportantTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportantTask), args.Error(1)
}

func (m *MockTaskRepo) Create(ctx context.Context, t *domain.ImportantTask) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepo) Update(ctx context.Context, t *domain.ImportantTask) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
