package todo

import (
	"time"

	"github.com/pocketlist/pocket-todo/internal/models"
	"github.com/pocketlist/pocket-todo/internal/validation"
)

const (
	dueDateLayout = "2006-01-02"
	dueTimeLayout = "15:04"
)

// Draft carries the client-supplied fields for a new todo. The store
// assigns id and created_at; completed always starts false.
type Draft struct {
	Title       string          `json:"title" validate:"required,min=1,max=500"`
	Description *string         `json:"description,omitempty"`
	DueDate     *string         `json:"due_date,omitempty"`
	DueTime     *string         `json:"due_time,omitempty"`
	Category    models.Category `json:"category,omitempty" validate:"omitempty,category"`
}

// Patch carries a partial update. Nil fields are left untouched; a blank
// Description, DueDate or DueTime clears the stored value.
type Patch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	DueDate     *string          `json:"due_date,omitempty"`
	DueTime     *string          `json:"due_time,omitempty"`
	Category    *models.Category `json:"category,omitempty"`
}

// Normalize sanitizes the draft text, converts blank optionals to absent,
// defaults the category, and rejects a blank title before any store call.
func (d *Draft) Normalize() error {
	d.Title = validation.SanitizeText(d.Title)
	if d.Title == "" {
		return &ValidationError{Field: "title", Message: "must not be blank"}
	}
	d.Description = normalizeOptional(d.Description)
	if d.Category == "" {
		d.Category = models.CategoryPersonal
	}
	if !d.Category.Valid() {
		return &ValidationError{Field: "category", Message: "must be personal, work, or shopping"}
	}
	var err error
	if d.DueDate, err = normalizeDueDate(d.DueDate); err != nil {
		return err
	}
	if d.DueTime, err = normalizeDueTime(d.DueTime); err != nil {
		return err
	}
	return nil
}

// Normalize validates and normalizes the provided patch fields.
func (p *Patch) Normalize() error {
	if p.Title != nil {
		cleaned := validation.SanitizeText(*p.Title)
		if cleaned == "" {
			return &ValidationError{Field: "title", Message: "must not be blank"}
		}
		p.Title = &cleaned
	}
	if p.Category != nil && !p.Category.Valid() {
		return &ValidationError{Field: "category", Message: "must be personal, work, or shopping"}
	}
	var err error
	if p.DueDate != nil {
		if p.DueDate, err = normalizeDueDate(p.DueDate); err != nil {
			return err
		}
		if p.DueDate == nil {
			p.DueDate = new(string) // blank means clear; keep the marker
			*p.DueDate = ""
		}
	}
	if p.DueTime != nil {
		if p.DueTime, err = normalizeDueTime(p.DueTime); err != nil {
			return err
		}
		if p.DueTime == nil {
			p.DueTime = new(string)
			*p.DueTime = ""
		}
	}
	return nil
}

// ApplyTo copies the patch fields onto t. Blank optional markers clear the
// corresponding field.
func (p *Patch) ApplyTo(t *models.Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = normalizeOptional(p.Description)
	}
	if p.DueDate != nil {
		if *p.DueDate == "" {
			t.DueDate = nil
		} else {
			v := *p.DueDate
			t.DueDate = &v
		}
	}
	if p.DueTime != nil {
		if *p.DueTime == "" {
			t.DueTime = nil
		} else {
			v := *p.DueTime
			t.DueTime = &v
		}
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
}

// Record builds the todo row to insert for userID. Callers must have
// normalized the draft first.
func (d *Draft) Record(userID string) *models.Todo {
	return &models.Todo{
		UserID:      userID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		DueTime:     d.DueTime,
		Category:    d.Category,
		Completed:   false,
	}
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := validation.SanitizeText(*s)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func normalizeDueDate(s *string) (*string, error) {
	s = normalizeOptional(s)
	if s == nil {
		return nil, nil
	}
	if _, err := time.Parse(dueDateLayout, *s); err != nil {
		return nil, &ValidationError{Field: "due_date", Message: "must be YYYY-MM-DD"}
	}
	return s, nil
}

func normalizeDueTime(s *string) (*string, error) {
	s = normalizeOptional(s)
	if s == nil {
		return nil, nil
	}
	if _, err := time.Parse(dueTimeLayout, *s); err != nil {
		return nil, &ValidationError{Field: "due_time", Message: "must be HH:MM"}
	}
	return s, nil
}
