package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTaskNotFound    = errors.New("important task not found")
	ErrTaskTextEmpty   = errors.New("task text cannot be empty")
	ErrTaskTextTooLong = errors.New("task text is too long (max 200 chars)")
	ErrInvalidTaskURL  = errors.New("task url must start with http:// or https://")
	ErrTaskConflict    = errors.New("important task already exists")
)

const (
	MaxTaskTextLen  = 200
	MaxSubTopicLen  = 100
	MaxSubTopicsLen = 20
)

type ImportantTask struct {
	ID            string     `json:"id" db:"id"`
	Text          string     `json:"text" db:"text"`
	Numerator     int        `json:"numerator" db:"numerator"`
	Denominator   int        `json:"denominator" db:"denominator"`
	DaysRemaining int        `json:"days_remaining" db:"days_remaining"`
	DueDate       *time.Time `json:"due_date,omitempty" db:"due_date"`
	URL           *string    `json:"url,omitempty" db:"url"`
	SubTopics     []string   `json:"sub_topics,omitempty" db:"sub_topics"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

func validateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrTaskTextEmpty
	}
	if len([]rune(trimmed)) > MaxTaskTextLen {
		return "", ErrTaskTextTooLong
	}
	return trimmed, nil
}

func normalizeSubTopics(topics []string) []string {
	if len(topics) == 0 {
		return nil
	}

	var out []string
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if r := []rune(t); len(r) > MaxSubTopicLen {
			t = string(r[:MaxSubTopicLen])
		}
		out = append(out, t)
		if len(out) == MaxSubTopicsLen {
			break
		}
	}
	return out
}

// NewImportantTask builds a task from a raw progress pair. With no explicit
// countdown the days remaining are inferred from the pair (denominator minus
// numerator) and pinned to a due date.
func NewImportantTask(text string, numerator, denominator int, now time.Time) (*ImportantTask, error) {
	cleanText, err := validateText(text)
	if err != nil {
		return nil, err
	}

	if denominator == 0 {
		denominator = 1
	}
	frac := ProgressFraction{Numerator: numerator, Denominator: denominator}
	if err := frac.Validate(); err != nil {
		return nil, err
	}

	created := now.UTC()
	t := &ImportantTask{
		ID:          uuid.New().String(),
		Text:        cleanText,
		Numerator:   frac.Numerator,
		Denominator: frac.Denominator,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	t.pinDueDate(InferDaysRemaining(frac), now)

	return t, nil
}

func (t *ImportantTask) Fraction() ProgressFraction {
	return NewProgressFraction(t.Numerator, t.Denominator)
}

func (t *ImportantTask) pinDueDate(days int, now time.Time) {
	days = max(days, 0)
	due := NormalizeToMidnight(now).AddDate(0, 0, days)
	t.DueDate = &due
	t.DaysRemaining = days
}

func (t *ImportantTask) applyDays(days int, now time.Time) {
	t.pinDueDate(days, now)
	frac := DeriveProgress(t.Denominator, t.DaysRemaining)
	t.Numerator = frac.Numerator
	t.Denominator = frac.Denominator
	t.UpdatedAt = now.UTC()
}

func (t *ImportantTask) Rename(text string, now time.Time) error {
	cleanText, err := validateText(text)
	if err != nil {
		return err
	}
	t.Text = cleanText
	t.UpdatedAt = now.UTC()
	return nil
}

func (t *ImportantTask) SetDaysRemaining(days int, now time.Time) {
	t.applyDays(days, now)
}

func (t *ImportantTask) SetDueDate(due, now time.Time) {
	t.applyDays(DaysRemaining(now, due), now)
}

// SetFraction stores an explicit progress pair and re-derives the countdown
// from it.
func (t *ImportantTask) SetFraction(numerator, denominator int, now time.Time) error {
	frac := ProgressFraction{Numerator: numerator, Denominator: denominator}
	if err := frac.Validate(); err != nil {
		return err
	}

	t.Numerator = frac.Numerator
	t.Denominator = frac.Denominator
	t.pinDueDate(InferDaysRemaining(frac), now)
	t.UpdatedAt = now.UTC()
	return nil
}

func (t *ImportantTask) SetURL(url string, now time.Time) error {
	url = strings.TrimSpace(url)
	if url == "" {
		t.URL = nil
	} else {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return ErrInvalidTaskURL
		}
		t.URL = &url
	}
	t.UpdatedAt = now.UTC()
	return nil
}

func (t *ImportantTask) SetSubTopics(topics []string, now time.Time) {
	t.SubTopics = normalizeSubTopics(topics)
	t.UpdatedAt = now.UTC()
}

// Resync brings the countdown up to date. Tasks with a due date recompute
// days remaining from it; legacy rows carrying only days_remaining decay by
// the calendar days since their last update and get a due date attached.
// Running it twice on the same day changes nothing the second time.
func (t *ImportantTask) Resync(now time.Time) bool {
	var days int
	dueWasMissing := t.DueDate == nil

	if dueWasMissing {
		days, _ = DecayDaysRemaining(t.DaysRemaining, t.UpdatedAt, now)
	} else {
		days = DaysRemaining(now, *t.DueDate)
	}

	frac := DeriveProgress(t.Denominator, days)
	if !dueWasMissing && days == t.DaysRemaining && frac.Numerator == t.Numerator && frac.Denominator == t.Denominator {
		return false
	}

	if dueWasMissing {
		t.pinDueDate(days, now)
	}
	t.DaysRemaining = days
	t.Numerator = frac.Numerator
	t.Denominator = frac.Denominator
	t.UpdatedAt = now.UTC()
	return true
}

func (t *ImportantTask) Clone() *ImportantTask {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.URL != nil {
		u := *t.URL
		c.URL = &u
	}
	if t.SubTopics != nil {
		c.SubTopics = append([]string(nil), t.SubTopics...)
	}
	return &c
}
