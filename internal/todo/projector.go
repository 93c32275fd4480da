package todo

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pocketlist/pocket-todo/internal/models"
)

// NoDueLabel is the urgency sentinel for records missing due_date or
// due_time. Such records are never reported as overdue.
const NoDueLabel = "no date/time set"

// OverdueLabel marks a record whose due instant has passed.
const OverdueLabel = "Overdue"

// CategoryPresentation is the display metadata for a category.
type CategoryPresentation struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var categoryPresentations = map[models.Category]CategoryPresentation{
	models.CategoryPersonal: {Label: "Personal", Icon: "👤", Color: "#4facfe"},
	models.CategoryWork:     {Label: "Work", Icon: "💼", Color: "#FFBF78"},
	models.CategoryShopping: {Label: "Shopping", Icon: "🛒", Color: "#9BC09C"},
}

// CategoryMeta returns the presentation for c. Unknown stored values fall
// back to the personal presentation rather than failing.
func CategoryMeta(c models.Category) CategoryPresentation {
	if p, ok := categoryPresentations[c]; ok {
		return p
	}
	return categoryPresentations[models.CategoryPersonal]
}

// Filter returns the records matching query: a trimmed, case-folded
// substring match against title, description (when present), and category
// name. A blank query matches everything. Input order is preserved.
func Filter(records []*models.Todo, query string) []*models.Todo {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]*models.Todo, len(records))
		copy(out, records)
		return out
	}
	out := make([]*models.Todo, 0, len(records))
	for _, r := range records {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r *models.Todo, q string) bool {
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	if r.Description != nil && strings.Contains(strings.ToLower(*r.Description), q) {
		return true
	}
	return strings.Contains(strings.ToLower(string(r.Category)), q)
}

// Partition splits records into pending and completed without changing
// their relative order.
func Partition(records []*models.Todo) (pending, completed []*models.Todo) {
	pending = make([]*models.Todo, 0, len(records))
	completed = make([]*models.Todo, 0)
	for _, r := range records {
		if r.Completed {
			completed = append(completed, r)
		} else {
			pending = append(pending, r)
		}
	}
	return pending, completed
}

// ProgressPercent computes the completed share of the full record set,
// rounded to the nearest integer. The empty set yields 0, not an error.
func ProgressPercent(records []*models.Todo) int {
	total := len(records)
	if total == 0 {
		total = 1
	}
	done := 0
	for _, r := range records {
		if r.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// UrgencyLabel renders the countdown to the record's due instant relative
// to now, in now's location. Records missing either due field get
// NoDueLabel and are never treated as overdue.
func UrgencyLabel(r *models.Todo, now time.Time) string {
	if r.DueDate == nil || r.DueTime == nil {
		return NoDueLabel
	}
	due, err := time.ParseInLocation(dueDateLayout+" "+dueTimeLayout, *r.DueDate+" "+*r.DueTime, now.Location())
	if err != nil {
		// Malformed stored value; tolerate like a missing one.
		return NoDueLabel
	}
	delta := due.Sub(now)
	if delta < 0 {
		return OverdueLabel
	}
	days := int(delta / (24 * time.Hour))
	hours := int(delta % (24 * time.Hour) / time.Hour)
	minutes := int(delta % time.Hour / time.Minute)
	switch {
	case days > 0:
		return pluralize(days, "day")
	case hours > 0:
		return pluralize(hours, "hour")
	default:
		return pluralize(minutes, "minute")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s left", unit)
	}
	return fmt.Sprintf("%d %ss left", n, unit)
}

// ViewItem pairs a record with its derived display metadata.
type ViewItem struct {
	Todo     *models.Todo         `json:"todo"`
	Urgency  string               `json:"urgency"`
	Category CategoryPresentation `json:"category"`
}

// View is the projection the presentation layer consumes: the search
// filtered, partitioned record set plus the progress metric. Progress is
// always computed over the unfiltered set.
type View struct {
	Pending         []ViewItem `json:"pending"`
	Completed       []ViewItem `json:"completed"`
	ProgressPercent int        `json:"progress_percent"`
	Total           int        `json:"total"`
	Matched         int        `json:"matched"`
}

// Project derives the full view from a record set and a search query.
// Pure: no I/O, no mutation of records.
func Project(records []*models.Todo, query string, now time.Time) View {
	filtered := Filter(records, query)
	pending, completed := Partition(filtered)
	return View{
		Pending:         viewItems(pending, now),
		Completed:       viewItems(completed, now),
		ProgressPercent: ProgressPercent(records),
		Total:           len(records),
		Matched:         len(filtered),
	}
}

func viewItems(records []*models.Todo, now time.Time) []ViewItem {
	items := make([]ViewItem, len(records))
	for i, r := range records {
		items[i] = ViewItem{
			Todo:     r,
			Urgency:  UrgencyLabel(r, now),
			Category: CategoryMeta(r.Category),
		}
	}
	return items
}
