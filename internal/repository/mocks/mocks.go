package mocks

import (
	"context"

	"github.com/kmizuno/tenken/internal/domain/company"
	"github.com/stretchr/testify/mock"
)

// CompanyRepository is a mock for repository.CompanyRepository.
type CompanyRepository struct {
	mock.Mock
}

func (m *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CompanyRepository) Get(ctx context.Context, id string) (*company.Company, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*company.Company); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CompanyRepository) List(ctx context.Context) ([]company.Company, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]company.Company); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CompanyRepository) Rename(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *CompanyRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CompanyRepository) AddInspection(ctx context.Context, ins *company.Inspection) error {
	args := m.Called(ctx, ins)
	return args.Error(0)
}

func (m *CompanyRepository) History(ctx context.Context, companyID string) ([]company.Inspection, error) {
	args := m.Called(ctx, companyID)
	if list, ok := args.Get(0).([]company.Inspection); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
