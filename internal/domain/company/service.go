package company

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kmizuno/tenken/internal/domain/schedule"
	"github.com/kmizuno/tenken/internal/repository"
)

// Service orchestrates the record store and the schedule rules into
// the operations the UI surface calls.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new company service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, logger: logger}
}

// Create registers a new company with no inspection history.
func (s *Service) Create(ctx context.Context, name string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	c := &Company{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}

	s.logger.Info("company created", "id", c.ID, "name", c.Name)
	return c, nil
}

// Rename changes a company's name. Nothing else is touched; history
// stays attached to the same ID.
func (s *Service) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidInput
	}

	if err := s.repo.Rename(ctx, id, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("renaming company: %w", err)
	}
	return nil
}

// RecordInspection appends a new history entry for a completed
// inspection. The next due date is derived from the done date at
// write time; existing entries are never modified.
func (s *Service) RecordInspection(ctx context.Context, companyID string, done time.Time, notes string) (*Inspection, error) {
	next := schedule.NextDueDate(done)

	ins := &Inspection{
		CompanyID: companyID,
		DoneDate:  schedule.FormatDate(done),
		NextDate:  schedule.FormatDate(next),
		Notes:     notes,
		CreatedAt: time.Now(),
	}

	if err := s.repo.AddInspection(ctx, ins); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("recording inspection: %w", err)
	}

	s.logger.Info("inspection recorded", "company_id", companyID, "done", ins.DoneDate, "next", ins.NextDate)
	return ins, nil
}

// Delete removes a company and all of its history. Deleting an absent
// company is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}
	return nil
}

// History returns a company's inspection entries, most recent first.
// A company with no entries yields an empty slice.
func (s *Service) History(ctx context.Context, companyID string) ([]Inspection, error) {
	entries, err := s.repo.History(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}

// ResolveForEdit resolves an edit target back to its current state so
// the caller can prefill a form. A stale ID surfaces as
// ErrCompanyNotFound rather than silently producing nothing.
func (s *Service) ResolveForEdit(ctx context.Context, id string) (*Company, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("resolving company: %w", err)
	}
	return c, nil
}

// View computes the display-ready list: companies filtered by a
// case-insensitive substring of the name, sorted by the requested
// key, annotated with status, plus the names currently due soon.
func (s *Service) View(ctx context.Context, opts ViewOptions) (*View, error) {
	companies, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}

	needle := strings.ToLower(opts.Search)
	rows := make([]Row, 0, len(companies))
	for _, c := range companies {
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		rows = append(rows, Row{Company: c, Status: s.classify(c, opts.Today)})
	}

	sortRows(rows, opts.Sort, opts.Descending)

	var urgent []string
	for _, r := range rows {
		if r.Status == schedule.StatusDueSoon {
			urgent = append(urgent, r.Name)
		}
	}

	return &View{Rows: rows, UrgentNames: urgent}, nil
}

func (s *Service) classify(c Company, today time.Time) schedule.Status {
	if c.NextDue == "" {
		return schedule.StatusNoData
	}
	nextDue, err := schedule.ParseDate(c.NextDue)
	if err != nil {
		// Stored dates are always written by the rule engine; a bad
		// one indicates outside tampering with the store.
		s.logger.Warn("unparseable next due date", "company_id", c.ID, "next_due", c.NextDue)
		return schedule.StatusNoData
	}
	return schedule.Classify(today, nextDue, true)
}

func sortRows(rows []Row, key SortKey, descending bool) {
	var less func(a, b Row) bool
	switch key {
	case SortByName:
		less = func(a, b Row) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	default:
		// Raw stored date strings sort chronologically; the empty
		// string for no-data companies orders before any real date.
		less = func(a, b Row) bool {
			return a.NextDue < b.NextDue
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if descending {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
