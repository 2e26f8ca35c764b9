package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
)

var ErrInvalidMonth = errors.New("invalid calendar month (year 1-9999, month 1-12)")

// MonthCache stores rendered months; any mutation flushes it.
type MonthCache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Flush()
}

type CalendarService struct {
	subjects *SubjectService
	tasks    *TaskService
	cache    MonthCache
	now      Clock
}

func NewCalendarService(subjects *SubjectService, tasks *TaskService, cache MonthCache, now Clock) *CalendarService {
	s := &CalendarService{
		subjects: subjects,
		tasks:    tasks,
		cache:    cache,
		now:      now,
	}
	subjects.Subscribe(s)
	tasks.Subscribe(s)
	return s
}

func (s *CalendarService) OnChange() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

// Month lays out one month: each subject session repeats weekly from its
// next date, each important task shows on its due date.
func (s *CalendarService) Month(ctx context.Context, year int, month time.Month) (*domain.CalendarMonth, error) {
	if year < 1 || year > 9999 || month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}

	today := s.now()
	key := fmt.Sprintf("calendar:%04d-%02d:%s", year, month, domain.FormatForStorage(today))
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if c, ok := cached.(*domain.CalendarMonth); ok {
				return c, nil
			}
		}
	}

	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	c := domain.NewCalendarMonth(year, month, today)
	monthEnd := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)

	for _, subj := range subjects {
		for _, session := range domain.Sessions {
			due := subj.DueDate(session)
			if due == nil {
				continue
			}
			y, m, d := due.Date()
			for date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC); date.Before(monthEnd); date = date.AddDate(0, 0, 7) {
				c.AddEvent(date, domain.CalendarEvent{
					Kind:    domain.TaskKindSubject,
					Session: session,
					TaskID:  domain.SubjectTaskID(subj.Name, session),
					Title:   subj.Name,
					Label:   session.Title(),
				})
			}
		}
	}

	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		c.AddEvent(*t.DueDate, domain.CalendarEvent{
			Kind:   domain.TaskKindImportant,
			TaskID: t.ID,
			Title:  t.Text,
			Label:  domain.FormatDateLabel(*t.DueDate, today),
		})
	}

	if s.cache != nil {
		s.cache.Set(key, c)
	}
	return c, nil
}
