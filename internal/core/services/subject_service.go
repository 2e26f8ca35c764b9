package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
)

// resetDays is the countdown used when a session's days are edited to a
// non-positive value.
const resetDays = 7

type SubjectService struct {
	notifier

	subjects domain.SubjectRepository
	progress domain.ProgressRepository
	schedule *domain.ScheduleRegistry
	canon    domain.Canonicalizer
	now      Clock

	mu sync.Mutex
}

func NewSubjectService(
	subjects domain.SubjectRepository,
	progress domain.ProgressRepository,
	schedule *domain.ScheduleRegistry,
	canon domain.Canonicalizer,
	now Clock,
) *SubjectService {
	if canon == nil {
		canon = domain.DefaultCanonicalizer
	}
	return &SubjectService{
		subjects: subjects,
		progress: progress,
		schedule: schedule,
		canon:    canon,
		now:      now,
	}
}

type UpdateSubjectInput struct {
	PdfCount     *int
	TheoryDate   *string
	PracticeDate *string
}

type UpdateProgressInput struct {
	SubjectName     string
	TableType       string
	CurrentProgress int
	TotalPdfs       int
}

func (s *SubjectService) Schedule() *domain.ScheduleRegistry {
	return s.schedule
}

// Seed creates the scheduled subjects and their two progress rows when they
// are missing. Existing rows are left as they are.
func (s *SubjectService) Seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now()
	for _, name := range s.schedule.Subjects() {
		subject, err := s.subjects.GetByName(ctx, name)
		if errors.Is(err, domain.ErrSubjectNotFound) {
			subject, err = domain.NewSubject(name, 0, today)
			if err != nil {
				return err
			}
			subject.RollDates(today, s.schedule)
			err = s.subjects.Save(ctx, subject)
		}
		if err != nil {
			return err
		}

		for _, session := range domain.Sessions {
			if _, err := s.getOrCreateProgress(ctx, name, session, subject.PdfCount); err != nil {
				return err
			}
		}
	}
	return nil
}

// List returns every subject with both session dates rolled to the future,
// scheduled subjects first.
func (s *SubjectService) List(ctx context.Context) ([]*domain.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, _, err := s.resync(ctx)
	if err != nil {
		return nil, err
	}
	s.order(subjects)
	return subjects, nil
}

func (s *SubjectService) Resync(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, changed, err := s.resync(ctx)
	return changed, err
}

func (s *SubjectService) resync(ctx context.Context) ([]*domain.Subject, int, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	today := s.now()
	changed := 0
	for _, subject := range subjects {
		if !subject.RollDates(today, s.schedule) {
			continue
		}
		if err := s.subjects.Save(ctx, subject); err != nil {
			return nil, changed, err
		}
		changed++
	}

	if changed > 0 {
		s.notify()
	}
	return subjects, changed, nil
}

func (s *SubjectService) order(subjects []*domain.Subject) {
	rank := make(map[string]int)
	for i, name := range s.schedule.Subjects() {
		rank[name] = i + 1
	}
	sort.SliceStable(subjects, func(i, j int) bool {
		ri, rj := rank[subjects[i].Name], rank[subjects[j].Name]
		if ri != 0 && rj != 0 {
			return ri < rj
		}
		if ri != 0 || rj != 0 {
			return ri != 0
		}
		return subjects[i].Name < subjects[j].Name
	})
}

func (s *SubjectService) Get(ctx context.Context, rawName string) (*domain.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subject, err := s.subjects.GetByName(ctx, s.canon.Canonicalize(rawName))
	if err != nil {
		return nil, err
	}
	if subject.RollDates(s.now(), s.schedule) {
		if err := s.subjects.Save(ctx, subject); err != nil {
			return nil, err
		}
	}
	return subject, nil
}

func (s *SubjectService) getOrCreate(ctx context.Context, name string) (*domain.Subject, error) {
	subject, err := s.subjects.GetByName(ctx, name)
	if errors.Is(err, domain.ErrSubjectNotFound) {
		return domain.NewSubject(name, 0, s.now())
	}
	return subject, err
}

func (s *SubjectService) getOrCreateProgress(ctx context.Context, name string, session domain.SessionType, total int) (*domain.SubjectProgress, error) {
	p, err := s.progress.Get(ctx, name, session)
	if errors.Is(err, domain.ErrProgressNotFound) {
		p, err = domain.NewSubjectProgress(name, session, 0, total, s.now())
		if err != nil {
			return nil, err
		}
		err = s.progress.Save(ctx, p)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// resolveDate parses a flexible date string, falling back to the next class
// day when the string is unreadable.
func (s *SubjectService) resolveDate(name string, session domain.SessionType, raw string) (time.Time, error) {
	today := s.now()
	if t, ok := domain.ParseFlexible(raw, today); ok {
		return t, nil
	}
	if t, ok := s.schedule.DefaultDueDate(name, session, today); ok {
		return t, nil
	}
	return time.Time{}, domain.ErrInvalidDate
}

// Update edits the pdf count and session dates of a subject, creating it if
// needed. A new pdf count becomes the total of both progress rows.
func (s *SubjectService) Update(ctx context.Context, rawName string, input UpdateSubjectInput) (*domain.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.canon.Canonicalize(rawName)
	subject, err := s.getOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}

	dates := map[domain.SessionType]*string{
		domain.SessionTheory:   input.TheoryDate,
		domain.SessionPractice: input.PracticeDate,
	}
	for _, session := range domain.Sessions {
		raw := dates[session]
		if raw == nil {
			continue
		}
		d, err := s.resolveDate(subject.Name, session, *raw)
		if err != nil {
			return nil, err
		}
		subject.SetDueDate(session, d, s.now())
	}

	if input.PdfCount != nil {
		if err := subject.SetPdfCount(*input.PdfCount, s.now()); err != nil {
			return nil, err
		}
		if err := s.propagatePdfCount(ctx, subject); err != nil {
			return nil, err
		}
	}

	if err := s.subjects.Save(ctx, subject); err != nil {
		return nil, err
	}

	s.notify()
	return subject, nil
}

func (s *SubjectService) propagatePdfCount(ctx context.Context, subject *domain.Subject) error {
	for _, session := range domain.Sessions {
		p, err := s.getOrCreateProgress(ctx, subject.Name, session, subject.PdfCount)
		if err != nil {
			return err
		}
		if p.TotalPdfs == subject.PdfCount {
			continue
		}
		if err := p.Set(p.CurrentProgress, subject.PdfCount, s.now()); err != nil {
			return err
		}
		if err := s.progress.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// SetDaysRemaining pins a session to today plus days. Zero or negative
// input means a week.
func (s *SubjectService) SetDaysRemaining(ctx context.Context, rawName string, rawSession string, days int) (*domain.Subject, error) {
	session, err := domain.ParseSessionType(rawSession)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = resetDays
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subject, err := s.getOrCreate(ctx, s.canon.Canonicalize(rawName))
	if err != nil {
		return nil, err
	}

	now := s.now()
	subject.SetDueDate(session, domain.NormalizeToMidnight(now).AddDate(0, 0, days), now)

	if err := s.subjects.Save(ctx, subject); err != nil {
		return nil, err
	}

	s.notify()
	return subject, nil
}

// Reset puts every scheduled subject back to zero units with dates taken
// from the timetable.
func (s *SubjectService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now()
	for _, name := range s.schedule.Subjects() {
		subject, err := s.getOrCreate(ctx, name)
		if err != nil {
			return err
		}
		subject.Reset(today)
		subject.RollDates(today, s.schedule)
		if err := s.subjects.Save(ctx, subject); err != nil {
			return err
		}

		for _, session := range domain.Sessions {
			p, err := domain.NewSubjectProgress(name, session, 0, 0, today)
			if err != nil {
				return err
			}
			if existing, err := s.progress.Get(ctx, name, session); err == nil {
				p.CreatedAt = existing.CreatedAt
			}
			if err := s.progress.Save(ctx, p); err != nil {
				return err
			}
		}
	}

	s.notify()
	return nil
}

func (s *SubjectService) ListProgress(ctx context.Context) ([]*domain.SubjectProgress, error) {
	return s.progress.List(ctx)
}

func (s *SubjectService) UpdateProgress(ctx context.Context, input UpdateProgressInput) (*domain.SubjectProgress, error) {
	session, err := domain.ParseSessionType(input.TableType)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.canon.Canonicalize(input.SubjectName)
	if name == "" {
		return nil, domain.ErrSubjectNameEmpty
	}

	p, err := s.progress.Get(ctx, name, session)
	if errors.Is(err, domain.ErrProgressNotFound) {
		p, err = domain.NewSubjectProgress(name, session, 0, 0, s.now())
	}
	if err != nil {
		return nil, err
	}

	if err := p.Set(input.CurrentProgress, input.TotalPdfs, s.now()); err != nil {
		return nil, err
	}
	if err := s.progress.Save(ctx, p); err != nil {
		return nil, err
	}

	s.notify()
	return p, nil
}
