package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kmizuno/tenken/internal/domain/company"
	"github.com/kmizuno/tenken/internal/repository"
)

// CompanyRepository implements repository.CompanyRepository for SQLite
type CompanyRepository struct {
	db *DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// latestInspectionJoin annotates each company with its most recent
// inspection, "most recent" meaning highest insertion id.
const latestInspectionJoin = `
	SELECT c.id, c.name, i.done_date, i.next_date, i.notes, c.created_at
	FROM companies c
	LEFT JOIN inspections i
	ON i.id = (
		SELECT id
		FROM inspections
		WHERE company_id = c.id
		ORDER BY id DESC
		LIMIT 1
	)
`

// Create inserts a new company with no inspection history
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	query := `
		INSERT INTO companies (id, name, created_at)
		VALUES (?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}

// Get retrieves a company by ID, annotated with its latest inspection
func (r *CompanyRepository) Get(ctx context.Context, id string) (*company.Company, error) {
	query := latestInspectionJoin + ` WHERE c.id = ?`

	c, err := scanCompany(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return c, nil
}

// List returns every company annotated with its latest inspection,
// ordered by name case-insensitively
func (r *CompanyRepository) List(ctx context.Context) ([]company.Company, error) {
	query := latestInspectionJoin + ` ORDER BY c.name COLLATE NOCASE`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []company.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, *c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}

	return companies, nil
}

// Rename updates a company's name only
func (r *CompanyRepository) Rename(ctx context.Context, id, name string) error {
	query := `
		UPDATE companies
		SET name = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename company: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a company and all of its inspections in one
// transaction. Deleting an absent company is a no-op.
func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inspections WHERE company_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete inspections: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddInspection appends a new inspection history entry and fills in
// its assigned id
func (r *CompanyRepository) AddInspection(ctx context.Context, ins *company.Inspection) error {
	query := `
		INSERT INTO inspections (company_id, done_date, next_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		ins.CompanyID,
		ins.DoneDate,
		ins.NextDate,
		ins.Notes,
		ins.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to add inspection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inspection id: %w", err)
	}
	ins.ID = id

	return nil
}

// History returns a company's inspections, most recent first
// (done_date descending, then id descending)
func (r *CompanyRepository) History(ctx context.Context, companyID string) ([]company.Inspection, error) {
	query := `
		SELECT id, company_id, done_date, next_date, notes, created_at
		FROM inspections
		WHERE company_id = ?
		ORDER BY done_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var entries []company.Inspection
	for rows.Next() {
		var ins company.Inspection
		err := rows.Scan(
			&ins.ID,
			&ins.CompanyID,
			&ins.DoneDate,
			&ins.NextDate,
			&ins.Notes,
			&ins.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}
		entries = append(entries, ins)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inspection rows: %w", err)
	}

	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*company.Company, error) {
	var c company.Company
	var done, next, notes sql.NullString
	err := row.Scan(&c.ID, &c.Name, &done, &next, &notes, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.LastDone = done.String
	c.NextDue = next.String
	c.Notes = notes.String
	return &c, nil
}
