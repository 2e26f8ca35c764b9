package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
)

type BoardService struct {
	subjects *SubjectService
	tasks    *TaskService
	now      Clock
}

func NewBoardService(subjects *SubjectService, tasks *TaskService, now Clock) *BoardService {
	return &BoardService{
		subjects: subjects,
		tasks:    tasks,
		now:      now,
	}
}

// Groups builds the Theory, Practice and Important groups from freshly
// rolled records. Averages are only ever computed inside one group.
func (s *BoardService) Groups(ctx context.Context) ([]*domain.TaskGroup, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.subjects.ListProgress(ctx)
	if err != nil {
		return nil, err
	}
	progress := make(map[string]*domain.SubjectProgress, len(rows))
	for _, p := range rows {
		progress[domain.SubjectTaskID(p.SubjectName, p.TableType)] = p
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	theory := domain.NewTaskGroup(domain.GroupTheory)
	practice := domain.NewTaskGroup(domain.GroupPractice)
	important := domain.NewTaskGroup(domain.GroupImportant)

	for _, subj := range subjects {
		for _, session := range domain.Sessions {
			p := progress[domain.SubjectTaskID(subj.Name, session)]
			task := domain.TaskFromSubject(subj, p, session, today)
			if session == domain.SessionPractice {
				practice.Tasks = append(practice.Tasks, task)
			} else {
				theory.Tasks = append(theory.Tasks, task)
			}
		}
	}

	for _, t := range tasks {
		important.Tasks = append(important.Tasks, domain.TaskFromImportant(t))
	}

	return []*domain.TaskGroup{theory, practice, important}, nil
}

func (s *BoardService) Build(ctx context.Context) (*domain.Board, error) {
	groups, err := s.Groups(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewBoard(s.now(), groups...), nil
}
