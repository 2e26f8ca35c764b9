package services

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
)

type TaskService struct {
	notifier

	repo domain.ImportantTaskRepository
	now  Clock

	mu sync.Mutex
}

func NewTaskService(repo domain.ImportantTaskRepository, now Clock) *TaskService {
	return &TaskService{
		repo: repo,
		now:  now,
	}
}

// CreateTaskInput: a due date wins over days remaining; with neither the
// countdown is inferred from the fraction.
type CreateTaskInput struct {
	Text          string
	Numerator     int
	Denominator   int
	DaysRemaining *int
	DueDate       *string
	URL           string
	SubTopics     []string
}

// UpdateTaskInput holds optional fields; nil leaves the stored value alone.
type UpdateTaskInput struct {
	Text          *string
	Numerator     *int
	Denominator   *int
	DaysRemaining *int
	DueDate       *string
	URL           *string
	SubTopics     *[]string
}

func (s *TaskService) List(ctx context.Context) ([]*domain.ImportantTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, _, err := s.resync(ctx)
	return tasks, err
}

func (s *TaskService) Resync(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, changed, err := s.resync(ctx)
	return changed, err
}

func (s *TaskService) resync(ctx context.Context) ([]*domain.ImportantTask, int, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	changed := 0
	for _, t := range tasks {
		if !t.Resync(now) {
			continue
		}
		if err := s.repo.Update(ctx, t); err != nil {
			return nil, changed, err
		}
		changed++
	}

	if changed > 0 {
		s.notify()
	}
	return tasks, changed, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*domain.ImportantTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Resync(s.now()) {
		if err := s.repo.Update(ctx, task); err != nil {
			return nil, err
		}
	}
	return task, nil
}

func (s *TaskService) applySchedule(task *domain.ImportantTask, days *int, due *string) error {
	now := s.now()
	switch {
	case due != nil:
		t, ok := domain.ParseFlexible(*due, now)
		if !ok {
			return domain.ErrInvalidDate
		}
		task.SetDueDate(t, now)
	case days != nil:
		task.SetDaysRemaining(*days, now)
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*domain.ImportantTask, error) {
	now := s.now()

	task, err := domain.NewImportantTask(input.Text, input.Numerator, input.Denominator, now)
	if err != nil {
		return nil, err
	}
	if err := s.applySchedule(task, input.DaysRemaining, input.DueDate); err != nil {
		return nil, err
	}
	if err := task.SetURL(input.URL, now); err != nil {
		return nil, err
	}
	task.SetSubTopics(input.SubTopics, now)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.notify()
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id string, input UpdateTaskInput) (*domain.ImportantTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if input.Text != nil {
		if err := task.Rename(*input.Text, now); err != nil {
			return nil, err
		}
	}

	if input.Numerator != nil || input.Denominator != nil {
		num, den := task.Numerator, task.Denominator
		if input.Numerator != nil {
			num = *input.Numerator
		}
		if input.Denominator != nil {
			den = *input.Denominator
		}
		if err := task.SetFraction(num, den, now); err != nil {
			return nil, err
		}
	}

	if err := s.applySchedule(task, input.DaysRemaining, input.DueDate); err != nil {
		return nil, err
	}

	if input.URL != nil {
		if err := task.SetURL(*input.URL, now); err != nil {
			return nil, err
		}
	}
	if input.SubTopics != nil {
		task.SetSubTopics(*input.SubTopics, now)
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.notify()
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.notify()
	return nil
}
