package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dates(s *domain.Subject) (string, string) {
	var theory, practice string
	if s.TheoryDate != nil {
		theory = domain.FormatForStorage(*s.TheoryDate)
	}
	if s.PracticeDate != nil {
		practice = domain.FormatForStorage(*s.PracticeDate)
	}
	return theory, practice
}

func TestSubjectService_Seed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.seed(t)

	subjects, err := f.subjects.List(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 3)

	assert.Equal(t, domain.SubjectAlgebra, subjects[0].Name)
	assert.Equal(t, domain.SubjectCalculo, subjects[1].Name)
	assert.Equal(t, domain.SubjectPoo, subjects[2].Name)

	theory, practice := dates(subjects[0])
	assert.Equal(t, "2026-10-22", theory)
	assert.Equal(t, "2026-10-19", practice)

	theory, practice = dates(subjects[2])
	assert.Equal(t, "2026-10-20", theory)
	assert.Equal(t, "2026-10-23", practice)

	progress, err := f.subjects.ListProgress(ctx)
	require.NoError(t, err)
	assert.Len(t, progress, 6)

	t.Run("Seeding again keeps existing data", func(t *testing.T) {
		_, err := f.subjects.Update(ctx, "Poo", services.UpdateSubjectInput{PdfCount: ptr(5)})
		require.NoError(t, err)

		f.seed(t)

		poo, err := f.subjects.Get(ctx, "Poo")
		require.NoError(t, err)
		assert.Equal(t, 5, poo.PdfCount)
	})
}

func TestSubjectService_RollForward(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)

	t.Run("Nothing to roll on the same day", func(t *testing.T) {
		changed, err := f.subjects.Resync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, changed)
	})

	t.Run("Elapsed dates roll to the next class day", func(t *testing.T) {
		f.clock.Advance(10)

		changed, err := f.subjects.Resync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, changed)

		alg, _ := f.subjects.Get(ctx, domain.SubjectAlgebra)
		theory, practice := dates(alg)
		assert.Equal(t, "2026-10-29", theory)
		assert.Equal(t, "2026-11-02", practice)

		poo, _ := f.subjects.Get(ctx, domain.SubjectPoo)
		theory, practice = dates(poo)
		assert.Equal(t, "2026-11-03", theory)
		assert.Equal(t, "2026-10-30", practice)
	})

	t.Run("List persists the rolled dates", func(t *testing.T) {
		f.clock.Advance(7)

		_, err := f.subjects.List(ctx)
		require.NoError(t, err)

		stored, err := f.store.Subjects.GetByName(ctx, domain.SubjectPoo)
		require.NoError(t, err)
		theory, _ := dates(stored)
		assert.Equal(t, "2026-11-10", theory)
	})
}

func TestSubjectService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: flexible dates on a canonicalized name", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t)

		s, err := f.subjects.Update(ctx, "algebra", services.UpdateSubjectInput{
			TheoryDate:   ptr("3d"),
			PracticeDate: ptr("garbage"),
		})

		require.NoError(t, err)
		assert.Equal(t, domain.SubjectAlgebra, s.Name)
		theory, practice := dates(s)
		assert.Equal(t, "2026-10-20", theory)
		assert.Equal(t, "2026-10-19", practice, "unreadable date falls back to the schedule")
	})

	t.Run("Pdf count becomes the progress total", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t)

		_, err := f.subjects.UpdateProgress(ctx, services.UpdateProgressInput{
			SubjectName: "Poo", TableType: "theory", CurrentProgress: 3, TotalPdfs: 10,
		})
		require.NoError(t, err)

		_, err = f.subjects.Update(ctx, "Poo", services.UpdateSubjectInput{PdfCount: ptr(2)})
		require.NoError(t, err)

		theory, err := f.store.Progress.Get(ctx, domain.SubjectPoo, domain.SessionTheory)
		require.NoError(t, err)
		assert.Equal(t, 2, theory.TotalPdfs)
		assert.Equal(t, 2, theory.CurrentProgress, "current is clamped to the new total")

		practice, err := f.store.Progress.Get(ctx, domain.SubjectPoo, domain.SessionPractice)
		require.NoError(t, err)
		assert.Equal(t, 2, practice.TotalPdfs)
		assert.Equal(t, 0, practice.CurrentProgress)
	})

	t.Run("Unscheduled subject needs a readable date", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.subjects.Update(ctx, "Física", services.UpdateSubjectInput{TheoryDate: ptr("nope")})
		assert.ErrorIs(t, err, domain.ErrInvalidDate)

		s, err := f.subjects.Update(ctx, "Física", services.UpdateSubjectInput{TheoryDate: ptr("2026-11-02")})
		require.NoError(t, err)
		theory, practice := dates(s)
		assert.Equal(t, "2026-11-02", theory)
		assert.Empty(t, practice)

		f.seed(t)
		list, err := f.subjects.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, "Física", list[3].Name, "unscheduled subjects sort after the timetable")
	})

	t.Run("Timestamps follow the service clock", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t)
		seededAt := f.clock.Now()
		f.clock.Advance(1)

		s, err := f.subjects.Update(ctx, "Poo", services.UpdateSubjectInput{PdfCount: ptr(3)})
		require.NoError(t, err)
		assert.True(t, seededAt.Equal(s.CreatedAt))
		assert.True(t, f.clock.Now().Equal(s.UpdatedAt))

		theory, err := f.store.Progress.Get(ctx, domain.SubjectPoo, domain.SessionTheory)
		require.NoError(t, err)
		assert.True(t, seededAt.Equal(theory.CreatedAt))
		assert.True(t, f.clock.Now().Equal(theory.UpdatedAt))
	})

	t.Run("Error: negative pdf count", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.subjects.Update(ctx, "Poo", services.UpdateSubjectInput{PdfCount: ptr(-1)})
		assert.ErrorIs(t, err, domain.ErrInvalidPdfCount)
	})

	t.Run("Error: empty name", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.subjects.Update(ctx, "  ", services.UpdateSubjectInput{})
		assert.ErrorIs(t, err, domain.ErrSubjectNameEmpty)
	})

	t.Run("Listeners are notified", func(t *testing.T) {
		f := newFixture(t)
		l := &countingListener{}
		f.subjects.Subscribe(l)

		_, err := f.subjects.Update(ctx, "Poo", services.UpdateSubjectInput{PdfCount: ptr(1)})
		require.NoError(t, err)
		assert.Equal(t, 1, l.Calls())
	})
}

func TestSubjectService_SetDaysRemaining(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)

	tests := []struct {
		name     string
		subject  string
		session  string
		days     int
		wantDate string
		wantErr  error
	}{
		{"Explicit days", "poo", "Teoría", 2, "2026-10-19", nil},
		{"Zero means a week", "Poo", "practice", 0, "2026-10-24", nil},
		{"Negative means a week", "Cálculo", "theory", -3, "2026-10-24", nil},
		{"Error: bad session", "Poo", "lab", 3, "", domain.ErrInvalidSessionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := f.subjects.SetDaysRemaining(ctx, tt.subject, tt.session, tt.days)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			session, _ := domain.ParseSessionType(tt.session)
			assert.Equal(t, tt.wantDate, domain.FormatForStorage(*s.DueDate(session)))
		})
	}
}

func TestSubjectService_Reset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)

	_, err := f.subjects.Update(ctx, "Poo", services.UpdateSubjectInput{PdfCount: ptr(6), TheoryDate: ptr("12d")})
	require.NoError(t, err)
	_, err = f.subjects.UpdateProgress(ctx, services.UpdateProgressInput{
		SubjectName: "Poo", TableType: "practice", CurrentProgress: 4, TotalPdfs: 6,
	})
	require.NoError(t, err)

	require.NoError(t, f.subjects.Reset(ctx))

	poo, err := f.subjects.Get(ctx, "Poo")
	require.NoError(t, err)
	assert.Equal(t, 0, poo.PdfCount)
	theory, practice := dates(poo)
	assert.Equal(t, "2026-10-20", theory)
	assert.Equal(t, "2026-10-23", practice)

	rows, err := f.subjects.ListProgress(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	for _, p := range rows {
		assert.Equal(t, 0, p.CurrentProgress)
		assert.Equal(t, 0, p.TotalPdfs)
	}
}

func TestSubjectService_UpdateProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("Success: creates the row and caps current", func(t *testing.T) {
		p, err := f.subjects.UpdateProgress(ctx, services.UpdateProgressInput{
			SubjectName: "calculo", TableType: "Práctica", CurrentProgress: 9, TotalPdfs: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SubjectCalculo, p.SubjectName)
		assert.Equal(t, domain.SessionPractice, p.TableType)
		assert.Equal(t, 5, p.CurrentProgress)
	})

	t.Run("Error: bad table type", func(t *testing.T) {
		_, err := f.subjects.UpdateProgress(ctx, services.UpdateProgressInput{SubjectName: "Poo", TableType: "lab"})
		assert.ErrorIs(t, err, domain.ErrInvalidSessionType)
	})

	t.Run("Error: negative values", func(t *testing.T) {
		_, err := f.subjects.UpdateProgress(ctx, services.UpdateProgressInput{
			SubjectName: "Poo", TableType: "theory", CurrentProgress: -1, TotalPdfs: 2,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidProgress)
	})

	t.Run("Error: empty subject", func(t *testing.T) {
		_, err := f.subjects.UpdateProgress(ctx, services.UpdateProgressInput{TableType: "theory"})
		assert.ErrorIs(t, err, domain.ErrSubjectNameEmpty)
	})
}

func TestSubjectService_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("db connection lost")

	repo := new(MockSubjectRepo)
	repo.On("List", mock.Anything).Return(nil, dbErr)
	repo.On("GetByName", mock.Anything, domain.SubjectPoo).Return(nil, dbErr)

	f := newFixture(t)
	svc := services.NewSubjectService(repo, f.store.Progress, domain.DefaultSchedule(), nil, f.clock.Now)

	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, dbErr)

	_, err = svc.Update(ctx, "Poo", services.UpdateSubjectInput{PdfCount: ptr(1)})
	assert.ErrorIs(t, err, dbErr)

	repo.AssertExpectations(t)
}
