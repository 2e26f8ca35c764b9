package repository

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
)

// fallbackState tracks whether the primary backend has ever held data. Once
// it has, the local store is neither read nor written again.
type fallbackState struct {
	primaryHasData atomic.Bool
}

func (s *fallbackState) useLocal() bool {
	return !s.primaryHasData.Load()
}

// NewFallbackStore reads the primary first and consults local only while the
// primary is empty. Writes go to local only when the primary write failed and
// the primary has never held data.
func NewFallbackStore(primary, local Store) Store {
	state := &fallbackState{}
	return Store{
		Subjects: &fallbackSubjects{state: state, primary: primary.Subjects, local: local.Subjects},
		Progress: &fallbackProgress{state: state, primary: primary.Progress, local: local.Progress},
		Tasks:    &fallbackTasks{state: state, primary: primary.Tasks, local: local.Tasks},
	}
}

// fallbackList and fallbackWrite carry the shared policy for the three
// record types.
func fallbackList[T any](ctx context.Context, state *fallbackState, primary, local func(context.Context) ([]T, error)) ([]T, error) {
	items, err := primary(ctx)
	if err == nil && len(items) > 0 {
		state.primaryHasData.Store(true)
		return items, nil
	}
	if !state.useLocal() {
		return items, err
	}

	localItems, localErr := local(ctx)
	if localErr == nil && len(localItems) > 0 {
		if err != nil {
			log.Printf("Primary store unavailable (%v), serving %d records from local store", err, len(localItems))
		}
		return localItems, nil
	}
	return items, err
}

func fallbackGet[T any](ctx context.Context, state *fallbackState, primary, local func(context.Context) (T, error)) (T, error) {
	item, err := primary(ctx)
	if err == nil {
		state.primaryHasData.Store(true)
		return item, nil
	}
	if !state.useLocal() {
		return item, err
	}

	if localItem, localErr := local(ctx); localErr == nil {
		return localItem, nil
	}
	return item, err
}

func fallbackWrite(ctx context.Context, state *fallbackState, what string, primary, local func(context.Context) error) error {
	err := primary(ctx)
	if err == nil {
		state.primaryHasData.Store(true)
		return nil
	}
	if !state.useLocal() {
		return err
	}

	if localErr := local(ctx); localErr != nil {
		log.Printf("Local store write failed for %s: %v", what, localErr)
		return err
	}
	log.Printf("Primary store write failed for %s (%v), kept in local store", what, err)
	return nil
}

type fallbackSubjects struct {
	state          *fallbackState
	primary, local domain.SubjectRepository
}

func (f *fallbackSubjects) List(ctx context.Context) ([]*domain.Subject, error) {
	return fallbackList(ctx, f.state, f.primary.List, f.local.List)
}

func (f *fallbackSubjects) GetByName(ctx context.Context, name string) (*domain.Subject, error) {
	return fallbackGet(ctx, f.state,
		func(ctx context.Context) (*domain.Subject, error) { return f.primary.GetByName(ctx, name) },
		func(ctx context.Context) (*domain.Subject, error) { return f.local.GetByName(ctx, name) },
	)
}

func (f *fallbackSubjects) Save(ctx context.Context, s *domain.Subject) error {
	return fallbackWrite(ctx, f.state, "subject "+s.Name,
		func(ctx context.Context) error { return f.primary.Save(ctx, s) },
		func(ctx context.Context) error { return f.local.Save(ctx, s) },
	)
}

type fallbackProgress struct {
	state          *fallbackState
	primary, local domain.ProgressRepository
}

func (f *fallbackProgress) List(ctx context.Context) ([]*domain.SubjectProgress, error) {
	return fallbackList(ctx, f.state, f.primary.List, f.local.List)
}

func (f *fallbackProgress) Get(ctx context.Context, subject string, session domain.SessionType) (*domain.SubjectProgress, error) {
	return fallbackGet(ctx, f.state,
		func(ctx context.Context) (*domain.SubjectProgress, error) { return f.primary.Get(ctx, subject, session) },
		func(ctx context.Context) (*domain.SubjectProgress, error) { return f.local.Get(ctx, subject, session) },
	)
}

func (f *fallbackProgress) Save(ctx context.Context, p *domain.SubjectProgress) error {
	return fallbackWrite(ctx, f.state, "progress "+p.SubjectName+"/"+string(p.TableType),
		func(ctx context.Context) error { return f.primary.Save(ctx, p) },
		func(ctx context.Context) error { return f.local.Save(ctx, p) },
	)
}

type fallbackTasks struct {
	state          *fallbackState
	primary, local domain.ImportantTaskRepository
}

func (f *fallbackTasks) List(ctx context.Context) ([]*domain.ImportantTask, error) {
	return fallbackList(ctx, f.state, f.primary.List, f.local.List)
}

func (f *fallbackTasks) GetByID(ctx context.Context, id string) (*domain.ImportantTask, error) {
	return fallbackGet(ctx, f.state,
		func(ctx context.Context) (*domain.ImportantTask, error) { return f.primary.GetByID(ctx, id) },
		func(ctx context.Context) (*domain.ImportantTask, error) { return f.local.GetByID(ctx, id) },
	)
}

func (f *fallbackTasks) Create(ctx context.Context, t *domain.ImportantTask) error {
	return fallbackWrite(ctx, f.state, "task "+t.ID,
		func(ctx context.Context) error { return f.primary.Create(ctx, t) },
		func(ctx context.Context) error { return f.local.Create(ctx, t) },
	)
}

func (f *fallbackTasks) Update(ctx context.Context, t *domain.ImportantTask) error {
	return fallbackWrite(ctx, f.state, "task "+t.ID,
		func(ctx context.Context) error { return f.primary.Update(ctx, t) },
		func(ctx context.Context) error { return f.local.Update(ctx, t) },
	)
}

func (f *fallbackTasks) Delete(ctx context.Context, id string) error {
	return fallbackWrite(ctx, f.state, "task "+id,
		func(ctx context.Context) error { return f.primary.Delete(ctx, id) },
		func(ctx context.Context) error { return f.local.Delete(ctx, id) },
	)
}
