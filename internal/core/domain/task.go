package domain

import "time"

type TaskKind string

const (
	TaskKindSubject   TaskKind = "subject"
	TaskKindImportant TaskKind = "important"
)

type GroupKind string

const (
	GroupTheory    GroupKind = "theory"
	GroupPractice  GroupKind = "practice"
	GroupImportant GroupKind = "important"
)

// Task is the common shape of a subject session and an important task as the
// board sees them.
type Task struct {
	ID            string
	Text          string
	Kind          TaskKind
	Session       SessionType
	Progress      ProgressFraction
	DueDate       *time.Time
	DaysRemaining int
	URL           *string
	SubTopics     []string
}

func SubjectTaskID(subject string, session SessionType) string {
	return string(session) + ":" + subject
}

func TaskFromSubject(s *Subject, p *SubjectProgress, session SessionType, today time.Time) *Task {
	t := &Task{
		ID:      SubjectTaskID(s.Name, session),
		Text:    s.Name,
		Kind:    TaskKindSubject,
		Session: session,
	}

	if p != nil {
		t.Progress = p.Fraction()
	} else {
		t.Progress = NewProgressFraction(0, s.PdfCount)
	}

	if due := s.DueDate(session); due != nil {
		d := *due
		t.DueDate = &d
		t.DaysRemaining = DaysRemaining(today, d)
	}
	return t
}

func TaskFromImportant(it *ImportantTask) *Task {
	t := &Task{
		ID:            it.ID,
		Text:          it.Text,
		Kind:          TaskKindImportant,
		Progress:      it.Fraction(),
		DaysRemaining: max(it.DaysRemaining, 0),
		URL:           it.URL,
		SubTopics:     it.SubTopics,
	}
	if it.DueDate != nil {
		d := *it.DueDate
		t.DueDate = &d
	}
	return t
}

type TaskGroup struct {
	Kind  GroupKind
	Title string
	Tasks []*Task
}

func NewTaskGroup(kind GroupKind) *TaskGroup {
	title := "Importante"
	switch kind {
	case GroupTheory:
		title = SessionTheory.Title()
	case GroupPractice:
		title = SessionPractice.Title()
	}
	return &TaskGroup{Kind: kind, Title: title}
}

func GroupForSession(session SessionType) GroupKind {
	if session == SessionPractice {
		return GroupPractice
	}
	return GroupTheory
}
