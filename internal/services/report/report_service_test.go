package report_test

import (
	"context"
	"testing"

	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/services/project"
	"github.com/curaious/civicpulse/internal/services/report"
	"github.com/curaious/civicpulse/internal/services/user"
	"github.com/curaious/civicpulse/internal/testutil/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *report.ReportService
	project *project.Project
	author  *user.User
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	p, err := store.Projects().Create(ctx, &project.ProjectInput{Title: project.Some("Bridge")})
	require.NoError(t, err)

	author := &user.User{Username: "mutua", Role: user.RoleCitizen}
	require.NoError(t, store.Users().Create(ctx, author))

	return fixture{svc: report.NewReportService(store.Reports()), project: p, author: author}
}

func ptr[T any](v T) *T { return &v }

func TestCreateReportIsAlwaysOpen(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	r, err := f.svc.Create(ctx, f.project.ID, f.author, &report.CreateReportRequest{
		Category:    ptr(report.CategoryDelay),
		Description: ptr("  No work for three months  "),
	})
	require.NoError(t, err)
	assert.Equal(t, report.StatusOpen, r.Status)
	assert.Equal(t, report.CategoryDelay, r.Category)
	assert.Equal(t, "No work for three months", r.Description)
	assert.Equal(t, "mutua", r.UserUsername)
}

func TestCreateReportDefaultsCategory(t *testing.T) {
	f := setup(t)
	r, err := f.svc.Create(context.Background(), f.project.ID, f.author, &report.CreateReportRequest{Description: ptr("Potholes")})
	require.NoError(t, err)
	assert.Equal(t, report.CategoryOther, r.Category)
}

func TestCreateReportValidation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.Create(ctx, f.project.ID, f.author, &report.CreateReportRequest{Description: ptr("   ")})
	fields, ok := perrors.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Description is required."}, fields["description"])

	_, err = f.svc.Create(ctx, f.project.ID, f.author, &report.CreateReportRequest{Category: ptr(report.Category("THEFT")), Description: ptr("x")})
	fields, ok = perrors.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "category")

	_, err = f.svc.Create(ctx, 9999, f.author, &report.CreateReportRequest{Description: ptr("x")})
	assert.ErrorIs(t, err, report.ErrProjectNotFound)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	r, err := f.svc.Create(ctx, f.project.ID, f.author, &report.CreateReportRequest{Description: ptr("Budget looks inflated")})
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(ctx, r.ID, &report.UpdateStatusRequest{Status: ptr(report.StatusInReview)})
	require.NoError(t, err)
	assert.Equal(t, report.StatusInReview, updated.Status)
	assert.Equal(t, r.Description, updated.Description)
	assert.True(t, updated.UpdatedAt.After(r.UpdatedAt))

	_, err = f.svc.UpdateStatus(ctx, r.ID, &report.UpdateStatusRequest{Status: ptr(report.Status("CLOSED"))})
	_, ok := perrors.AsFieldErrors(err)
	assert.True(t, ok)

	_, err = f.svc.UpdateStatus(ctx, r.ID, &report.UpdateStatusRequest{})
	_, ok = perrors.AsFieldErrors(err)
	assert.True(t, ok)

	_, err = f.svc.UpdateStatus(ctx, 9999, &report.UpdateStatusRequest{Status: ptr(report.StatusResolved)})
	assert.ErrorIs(t, err, report.ErrReportNotFound)

	all, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, report.StatusInReview, all[0].Status)
}
