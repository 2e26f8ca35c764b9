package domain

import "time"

type TaskView struct {
	ID            string      `json:"id"`
	Text          string      `json:"text"`
	Kind          TaskKind    `json:"kind"`
	Session       SessionType `json:"session,omitempty"`
	Numerator     int         `json:"numerator"`
	Denominator   int         `json:"denominator"`
	Percentage    float64     `json:"percentage"`
	UnitsNeeded   int         `json:"units_needed"`
	DaysRemaining int         `json:"days_remaining"`
	DueDate       string      `json:"due_date,omitempty"`
	DueLabel      string      `json:"due_label,omitempty"`
	Urgency       Urgency     `json:"urgency"`
	URL           *string     `json:"url,omitempty"`
	SubTopics     []string    `json:"sub_topics,omitempty"`
}

type GroupView struct {
	Kind    GroupKind  `json:"kind"`
	Title   string     `json:"title"`
	Average float64    `json:"average"`
	Tasks   []TaskView `json:"tasks"`
}

type Board struct {
	Date   string      `json:"date"`
	Groups []GroupView `json:"groups"`
}

func NewGroupView(g *TaskGroup, today time.Time) GroupView {
	view := GroupView{
		Kind:    g.Kind,
		Title:   g.Title,
		Average: g.Average(),
		Tasks:   make([]TaskView, 0, len(g.Tasks)),
	}

	for _, t := range g.Tasks {
		tv := TaskView{
			ID:            t.ID,
			Text:          t.Text,
			Kind:          t.Kind,
			Session:       t.Session,
			Numerator:     t.Progress.Numerator,
			Denominator:   t.Progress.Denominator,
			Percentage:    t.Progress.Percentage(),
			UnitsNeeded:   g.UnitsNeeded(t),
			DaysRemaining: t.DaysRemaining,
			Urgency:       UrgencyFor(t.DaysRemaining),
			URL:           t.URL,
			SubTopics:     t.SubTopics,
		}
		if t.DueDate != nil {
			tv.DueDate = FormatForStorage(*t.DueDate)
			tv.DueLabel = FormatDateLabel(*t.DueDate, today)
		}
		view.Tasks = append(view.Tasks, tv)
	}

	return view
}

func NewBoard(today time.Time, groups ...*TaskGroup) *Board {
	b := &Board{
		Date:   FormatForStorage(today),
		Groups: make([]GroupView, 0, len(groups)),
	}
	for _, g := range groups {
		b.Groups = append(b.Groups, NewGroupView(g, today))
	}
	return b
}
