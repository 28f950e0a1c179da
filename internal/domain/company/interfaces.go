package company

import "context"

// Repository provides persistence for companies and their history.
type Repository interface {
	Create(ctx context.Context, c *Company) error
	Get(ctx context.Context, id string) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	AddInspection(ctx context.Context, ins *Inspection) error
	History(ctx context.Context, companyID string) ([]Inspection, error)
}
