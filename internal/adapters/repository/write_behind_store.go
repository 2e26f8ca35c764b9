package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/workers"
)

type JobQueue interface {
	Enqueue(job workers.PersistJob) bool
}

// WriteBehindStore serves reads from memory and applies writes to memory
// right away. The durable write is queued on the persist worker; if it
// fails the in-memory state is kept and the next resync rewrites it.
type WriteBehindStore struct {
	memory  Store
	durable Store
	queue   JobQueue
}

func NewWriteBehindStore(memory, durable Store, queue JobQueue) *WriteBehindStore {
	return &WriteBehindStore{
		memory:  memory,
		durable: durable,
		queue:   queue,
	}
}

// Hydrate copies every durable record into memory. It must run once before
// the store serves requests.
func (w *WriteBehindStore) Hydrate(ctx context.Context) error {
	subjects, err := w.durable.Subjects.List(ctx)
	if err != nil {
		return fmt.Errorf("hydrate subjects: %w", err)
	}
	for _, s := range subjects {
		if err := w.memory.Subjects.Save(ctx, s); err != nil {
			return err
		}
	}

	progress, err := w.durable.Progress.List(ctx)
	if err != nil {
		return fmt.Errorf("hydrate progress: %w", err)
	}
	for _, p := range progress {
		if err := w.memory.Progress.Save(ctx, p); err != nil {
			return err
		}
	}

	tasks, err := w.durable.Tasks.List(ctx)
	if err != nil {
		return fmt.Errorf("hydrate tasks: %w", err)
	}
	for _, t := range tasks {
		if err := w.memory.Tasks.Create(ctx, t); err != nil && !errors.Is(err, domain.ErrTaskConflict) {
			return err
		}
	}

	log.Printf("[PERSIST] Hydrated %d subjects, %d progress rows, %d tasks", len(subjects), len(progress), len(tasks))
	return nil
}

func (w *WriteBehindStore) Store() Store {
	return Store{
		Subjects: &writeBehindSubjects{w},
		Progress: &writeBehindProgress{w},
		Tasks:    &writeBehindTasks{w},
	}
}

func (w *WriteBehindStore) enqueue(name string, run func(ctx context.Context) error) {
	w.queue.Enqueue(workers.PersistJob{Name: name, Run: run})
}

type writeBehindSubjects struct{ w *WriteBehindStore }

func (r *writeBehindSubjects) List(ctx context.Context) ([]*domain.Subject, error) {
	return r.w.memory.Subjects.List(ctx)
}

func (r *writeBehindSubjects) GetByName(ctx context.Context, name string) (*domain.Subject, error) {
	return r.w.memory.Subjects.GetByName(ctx, name)
}

func (r *writeBehindSubjects) Save(ctx context.Context, s *domain.Subject) error {
	if err := r.w.memory.Subjects.Save(ctx, s); err != nil {
		return err
	}
	snapshot := s.Clone()
	r.w.enqueue("save subject "+s.Name, func(ctx context.Context) error {
		return r.w.durable.Subjects.Save(ctx, snapshot)
	})
	return nil
}

type writeBehindProgress struct{ w *WriteBehindStore }

func (r *writeBehindProgress) List(ctx context.Context) ([]*domain.SubjectProgress, error) {
	return r.w.memory.Progress.List(ctx)
}

func (r *writeBehindProgress) Get(ctx context.Context, subject string, session domain.SessionType) (*domain.SubjectProgress, error) {
	return r.w.memory.Progress.Get(ctx, subject, session)
}

func (r *writeBehindProgress) Save(ctx context.Context, p *domain.SubjectProgress) error {
	if err := r.w.memory.Progress.Save(ctx, p); err != nil {
		return err
	}
	snapshot := p.Clone()
	r.w.enqueue("save progress "+p.SubjectName+"/"+string(p.TableType), func(ctx context.Context) error {
		return r.w.durable.Progress.Save(ctx, snapshot)
	})
	return nil
}

type writeBehindTasks struct{ w *WriteBehindStore }

func (r *writeBehindTasks) List(ctx context.Context) ([]*domain.ImportantTask, error) {
	return r.w.memory.Tasks.List(ctx)
}

func (r *writeBehindTasks) GetByID(ctx context.Context, id string) (*domain.ImportantTask, error) {
	return r.w.memory.Tasks.GetByID(ctx, id)
}

func (r *writeBehindTasks) Create(ctx context.Context, t *domain.ImportantTask) error {
	if err := r.w.memory.Tasks.Create(ctx, t); err != nil {
		return err
	}
	snapshot := t.Clone()
	r.w.enqueue("create task "+t.ID, func(ctx context.Context) error {
		return r.w.durable.Tasks.Create(ctx, snapshot)
	})
	return nil
}

// Update falls back to an insert when the durable row is missing, which
// happens when the original create job was dropped.
func (r *writeBehindTasks) Update(ctx context.Context, t *domain.ImportantTask) error {
	if err := r.w.memory.Tasks.Update(ctx, t); err != nil {
		return err
	}
	snapshot := t.Clone()
	r.w.enqueue("update task "+t.ID, func(ctx context.Context) error {
		err := r.w.durable.Tasks.Update(ctx, snapshot)
		if errors.Is(err, domain.ErrTaskNotFound) {
			return r.w.durable.Tasks.Create(ctx, snapshot)
		}
		return err
	})
	return nil
}

func (r *writeBehindTasks) Delete(ctx context.Context, id string) error {
	if err := r.w.memory.Tasks.Delete(ctx, id); err != nil {
		return err
	}
	r.w.enqueue("delete task "+id, func(ctx context.Context) error {
		err := r.w.durable.Tasks.Delete(ctx, id)
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil
		}
		return err
	})
	return nil
}
