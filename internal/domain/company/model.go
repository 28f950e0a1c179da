package company

import (
	"time"

	"github.com/kmizuno/tenken/internal/domain/schedule"
)

// Company is one entity subject to recurring inspection. LastDone,
// NextDue and Notes are derived from the most recent inspection and
// are empty strings for a company with no history.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LastDone  string    `json:"last_done,omitempty"`
	NextDue   string    `json:"next_due,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Inspection is one append-only history entry. Entries are never
// mutated after insertion; the ID sequence defines recency.
type Inspection struct {
	ID        int64     `json:"id"`
	CompanyID string    `json:"company_id"`
	DoneDate  string    `json:"done_date"`
	NextDate  string    `json:"next_date"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SortKey selects the primary ordering of the directory view.
type SortKey string

const (
	// SortByDueDate orders by the raw stored next-due date string.
	// Companies without a due date carry the empty string, so they
	// sort first ascending and last descending.
	SortByDueDate SortKey = "due"
	// SortByName orders by company name, case-insensitively.
	SortByName SortKey = "name"
)

// ViewOptions parameterizes one directory view computation.
type ViewOptions struct {
	Search     string
	Sort       SortKey
	Descending bool
	Today      time.Time
}

// Row is one display-ready entry: a company annotated with its status.
type Row struct {
	Company
	Status schedule.Status `json:"status"`
}

// View is the filtered, sorted, annotated company list plus the names
// currently inside the warning window, in display order.
type View struct {
	Rows        []Row    `json:"rows"`
	UrgentNames []string `json:"urgent_names,omitempty"`
}
