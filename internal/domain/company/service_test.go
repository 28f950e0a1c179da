package company_test

import (
	"context"
	"testing"
	"time"

	"github.com/kmizuno/tenken/internal/domain/company"
	"github.com/kmizuno/tenken/internal/domain/schedule"
	"github.com/kmizuno/tenken/internal/repository"
	"github.com/kmizuno/tenken/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CompanyRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := company.NewService(repo, nil)
	c, err := svc.Create(ctx, "  Acme Corp  ")
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Equal(t, "Acme Corp", c.Name, "name is trimmed")
	require.Empty(t, c.NextDue)
}

func TestServiceCreateValidation(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CompanyRepository{}
	svc := company.NewService(repo, nil)

	_, err := svc.Create(ctx, "")
	require.ErrorIs(t, err, company.ErrInvalidInput)
	_, err = svc.Create(ctx, "   ")
	require.ErrorIs(t, err, company.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create")
}

func TestServiceRename(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CompanyRepository{}
	repo.On("Rename", ctx, "c1", "New Name").Return(nil)
	repo.On("Rename", ctx, "stale", "New Name").Return(repository.ErrNotFound)

	svc := company.NewService(repo, nil)
	require.NoError(t, svc.Rename(ctx, "c1", "New Name"))
	require.ErrorIs(t, svc.Rename(ctx, "stale", "New Name"), company.ErrCompanyNotFound)
	require.ErrorIs(t, svc.Rename(ctx, "c1", " "), company.ErrInvalidInput)
}

func TestServiceRecordInspectionDerivesNextDue(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CompanyRepository{}
	repo.On("AddInspection", ctx, mock.Anything).Return(nil)

	svc := company.NewService(repo, nil)
	done := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	ins, err := svc.RecordInspection(ctx, "c1", done, "routine check")
	require.NoError(t, err)
	require.Equal(t, "2025-04-01", ins.DoneDate)
	require.Equal(t, "2026-03-31", ins.NextDate)
	require.Equal(t, "routine check", ins.Notes)
}

func TestServiceRecordInspectionStaleCompany(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CompanyRepository{}
	repo.On("AddInspection", ctx, mock.Anything).Return(repository.ErrForeignKeyViolation)

	svc := company.NewService(repo, nil)
	_, err := svc.RecordInspection(ctx, "gone", time.Now(), "")
	require.ErrorIs(t, err, company.ErrCompanyNotFound)
}

func TestServiceResolveForEdit(t *testing.T) {
	ctx := context.Background()

	current := &company.Company{ID: "c1", Name: "Acme Corp", LastDone: "2025-04-01", NextDue: "2026-03-31", Notes: "ok"}
	repo := &mocks.CompanyRepository{}
	repo.On("Get", ctx, "c1").Return(current, nil)
	repo.On("Get", ctx, "stale").Return((*company.Company)(nil), repository.ErrNotFound)

	svc := company.NewService(repo, nil)

	got, err := svc.ResolveForEdit(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, current, got)

	_, err = svc.ResolveForEdit(ctx, "stale")
	require.ErrorIs(t, err, company.ErrCompanyNotFound)
}

func viewFixture() []company.Company {
	// today in tests: 2025-02-15
	return []company.Company{
		{ID: "a", Name: "Acme Corp", LastDone: "2024-04-10", NextDue: "2025-04-09"},        // due soon
		{ID: "b", Name: "Beta Industries", LastDone: "2024-01-05", NextDue: "2025-01-04"},  // expired
		{ID: "g", Name: "gamma logistics", LastDone: "2024-10-01", NextDue: "2025-09-30"},  // ok
		{ID: "n", Name: "Newcomer KK"},                                                     // no data
	}
}

func viewService(t *testing.T) *company.Service {
	t.Helper()
	repo := &mocks.CompanyRepository{}
	repo.On("List", mock.Anything).Return(viewFixture(), nil)
	return company.NewService(repo, nil)
}

var viewToday = time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)

func rowNames(rows []company.Row) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names
}

func TestViewStatusesAndUrgentNames(t *testing.T) {
	svc := viewService(t)

	view, err := svc.View(context.Background(), company.ViewOptions{Sort: company.SortByName, Today: viewToday})
	require.NoError(t, err)
	require.Len(t, view.Rows, 4)

	byName := map[string]schedule.Status{}
	for _, r := range view.Rows {
		byName[r.Name] = r.Status
	}
	require.Equal(t, schedule.StatusDueSoon, byName["Acme Corp"])
	require.Equal(t, schedule.StatusExpired, byName["Beta Industries"])
	require.Equal(t, schedule.StatusOk, byName["gamma logistics"])
	require.Equal(t, schedule.StatusNoData, byName["Newcomer KK"])

	// Only due-soon companies feed the notifier; expired ones do not.
	require.Equal(t, []string{"Acme Corp"}, view.UrgentNames)
}

func TestViewSearchIsCaseInsensitiveSubstring(t *testing.T) {
	svc := viewService(t)
	ctx := context.Background()

	for _, needle := range []string{"acme", "ACME", "me co"} {
		view, err := svc.View(ctx, company.ViewOptions{Search: needle, Today: viewToday})
		require.NoError(t, err)
		require.Equal(t, []string{"Acme Corp"}, rowNames(view.Rows), "search %q", needle)
	}

	view, err := svc.View(ctx, company.ViewOptions{Search: "xyz", Today: viewToday})
	require.NoError(t, err)
	require.Empty(t, view.Rows)

	view, err = svc.View(ctx, company.ViewOptions{Search: "", Today: viewToday})
	require.NoError(t, err)
	require.Len(t, view.Rows, 4, "empty search matches all")
}

func TestViewSortByDueDate(t *testing.T) {
	svc := viewService(t)
	ctx := context.Background()

	view, err := svc.View(ctx, company.ViewOptions{Sort: company.SortByDueDate, Today: viewToday})
	require.NoError(t, err)
	// No-data companies sort first ascending (empty string before any date).
	require.Equal(t, []string{"Newcomer KK", "Beta Industries", "Acme Corp", "gamma logistics"}, rowNames(view.Rows))

	view, err = svc.View(ctx, company.ViewOptions{Sort: company.SortByDueDate, Descending: true, Today: viewToday})
	require.NoError(t, err)
	require.Equal(t, []string{"gamma logistics", "Acme Corp", "Beta Industries", "Newcomer KK"}, rowNames(view.Rows))
}

func TestViewSortByNameCaseInsensitive(t *testing.T) {
	svc := viewService(t)
	ctx := context.Background()

	view, err := svc.View(ctx, company.ViewOptions{Sort: company.SortByName, Today: viewToday})
	require.NoError(t, err)
	require.Equal(t, []string{"Acme Corp", "Beta Industries", "gamma logistics", "Newcomer KK"}, rowNames(view.Rows))

	view, err = svc.View(ctx, company.ViewOptions{Sort: company.SortByName, Descending: true, Today: viewToday})
	require.NoError(t, err)
	require.Equal(t, []string{"Newcomer KK", "gamma logistics", "Beta Industries", "Acme Corp"}, rowNames(view.Rows))
}

func TestViewUrgentNamesFollowFilter(t *testing.T) {
	svc := viewService(t)

	view, err := svc.View(context.Background(), company.ViewOptions{Search: "beta", Today: viewToday})
	require.NoError(t, err)
	require.Empty(t, view.UrgentNames, "filtered-out companies never alert")
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.CompanyRepository{}
	repo.On("Delete", ctx, "c1").Return(nil)

	svc := company.NewService(repo, nil)
	require.NoError(t, svc.Delete(ctx, "c1"))
	repo.AssertExpectations(t)
}
