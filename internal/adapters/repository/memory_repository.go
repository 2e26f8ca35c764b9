package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
)

// NewSessionStore is the in-process copy of every record. Records are cloned
// on the way in and out so callers never share pointers with the store.
func NewSessionStore() Store {
	return Store{
		Subjects: NewInMemorySubjectRepository(),
		Progress: NewInMemoryProgressRepository(),
		Tasks:    NewInMemoryTaskRepository(),
	}
}

type InMemorySubjectRepository struct {
	store map[string]*domain.Subject

	mu sync.RWMutex
}

func NewInMemorySubjectRepository() *InMemorySubjectRepository {
	return &InMemorySubjectRepository{
		store: make(map[string]*domain.Subject),
	}
}

func (r *InMemorySubjectRepository) List(ctx context.Context) ([]*domain.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subjects := make([]*domain.Subject, 0, len(r.store))
	for _, s := range r.store {
		subjects = append(subjects, s.Clone())
	}

	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i].Name < subjects[j].Name
	})

	return subjects, nil
}

func (r *InMemorySubjectRepository) GetByName(ctx context.Context, name string) (*domain.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.store[name]
	if !ok {
		return nil, domain.ErrSubjectNotFound
	}
	return s.Clone(), nil
}

func (r *InMemorySubjectRepository) Save(ctx context.Context, subject *domain.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[subject.Name] = subject.Clone()
	return nil
}

type progressKey struct {
	subject string
	session domain.SessionType
}

type InMemoryProgressRepository struct {
	store map[progressKey]*domain.SubjectProgress

	mu sync.RWMutex
}

func NewInMemoryProgressRepository() *InMemoryProgressRepository {
	return &InMemoryProgressRepository{
		store: make(map[progressKey]*domain.SubjectProgress),
	}
}

func (r *InMemoryProgressRepository) List(ctx context.Context) ([]*domain.SubjectProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]*domain.SubjectProgress, 0, len(r.store))
	for _, p := range r.store {
		rows = append(rows, p.Clone())
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SubjectName != rows[j].SubjectName {
			return rows[i].SubjectName < rows[j].SubjectName
		}
		return rows[i].TableType > rows[j].TableType
	})

	return rows, nil
}

func (r *InMemoryProgressRepository) Get(ctx context.Context, subject string, session domain.SessionType) (*domain.SubjectProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.store[progressKey{subject, session}]
	if !ok {
		return nil, domain.ErrProgressNotFound
	}
	return p.Clone(), nil
}

func (r *InMemoryProgressRepository) Save(ctx context.Context, progress *domain.SubjectProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[progressKey{progress.SubjectName, progress.TableType}] = progress.Clone()
	return nil
}

type InMemoryTaskRepository struct {
	store map[string]*domain.ImportantTask

	mu sync.RWMutex
}

func NewInMemoryTaskRepository() *InMemoryTaskRepository {
	return &InMemoryTaskRepository{
		store: make(map[string]*domain.ImportantTask),
	}
}

func (r *InMemoryTaskRepository) List(ctx context.Context) ([]*domain.ImportantTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*domain.ImportantTask, 0, len(r.store))
	for _, t := range r.store {
		tasks = append(tasks, t.Clone())
	}

	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})

	return tasks, nil
}

func (r *InMemoryTaskRepository) GetByID(ctx context.Context, id string) (*domain.ImportantTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.store[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t.Clone(), nil
}

func (r *InMemoryTaskRepository) Create(ctx context.Context, task *domain.ImportantTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[task.ID]; exists {
		return domain.ErrTaskConflict
	}
	r.store[task.ID] = task.Clone()
	return nil
}

func (r *InMemoryTaskRepository) Update(ctx context.Context, task *domain.ImportantTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.store[task.ID] = task.Clone()
	return nil
}

func (r *InMemoryTaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.store, id)
	return nil
}
