package project_test

import (
	"context"
	"testing"

	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/services/project"
	"github.com/curaious/civicpulse/internal/testutil/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*project.ProjectService, *memstore.Store) {
	store := memstore.New()
	return project.NewProjectService(store.Projects()), store
}

func create(t *testing.T, svc *project.ProjectService, in *project.ProjectInput) *project.Project {
	t.Helper()
	p, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newService()
	p := create(t, svc, &project.ProjectInput{Title: project.Some("Bridge")})

	assert.Equal(t, project.StatusPlanned, p.Status)
	assert.Equal(t, 0, p.Progress)
	assert.False(t, p.Budget.Valid)
	assert.False(t, p.SpentAmount.Valid)
	assert.Nil(t, p.StartDate)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestProgressOutOfRangeLeavesProjectUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	p := create(t, svc, &project.ProjectInput{Title: project.Some("Bridge"), Progress: project.Some(40)})

	for _, progress := range []int{-1, 101} {
		_, err := svc.Update(ctx, p.ID, &project.ProjectInput{Progress: project.Some(progress)}, true)
		fields, ok := perrors.AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fields, "progress")

		stored, err := svc.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 40, stored.Progress)
	}

	_, err := svc.Create(ctx, &project.ProjectInput{Title: project.Some("Dam"), Progress: project.Some(101)})
	_, ok := perrors.AsFieldErrors(err)
	assert.True(t, ok)
}

func TestUpdatePutRequiresTitlePatchDoesNot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	p := create(t, svc, &project.ProjectInput{Title: project.Some("Bridge"), County: project.Some("Nairobi")})

	_, err := svc.Update(ctx, p.ID, &project.ProjectInput{Progress: project.Some(10)}, false)
	fields, ok := perrors.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"This field is required."}, fields["title"])

	updated, err := svc.Update(ctx, p.ID, &project.ProjectInput{Progress: project.Some(10)}, true)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Progress)
	assert.Equal(t, "Bridge", updated.Title)
	assert.Equal(t, "Nairobi", updated.County)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
}

func TestUpdateClearsNullableFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	p := create(t, svc, &project.ProjectInput{Title: project.Some("Bridge"), Budget: project.Some(decimal.NewFromInt(100))})

	updated, err := svc.Update(ctx, p.ID, &project.ProjectInput{Budget: project.Null[decimal.Decimal]()}, true)
	require.NoError(t, err)
	assert.False(t, updated.Budget.Valid)
}

func TestUpdateAndDeleteMissingProject(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.Update(ctx, 9999, &project.ProjectInput{Title: project.Some("x")}, false)
	assert.ErrorIs(t, err, project.ErrProjectNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 9999), project.ErrProjectNotFound)

	_, err = svc.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestListNewestFirstWithFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	first := create(t, svc, &project.ProjectInput{Title: project.Some("Nairobi Road"), County: project.Some("Nairobi"), Status: project.Some(project.StatusOngoing)})
	second := create(t, svc, &project.ProjectInput{Title: project.Some("Kisumu Lights"), County: project.Some("Kisumu")})
	third := create(t, svc, &project.ProjectInput{Title: project.Some("Water Pipeline"), County: project.Some("Nairobi")})

	all, err := svc.List(ctx, project.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	byCounty, err := svc.List(ctx, project.ListFilter{County: " nairobi "})
	require.NoError(t, err)
	assert.Len(t, byCounty, 2)

	byStatus, err := svc.List(ctx, project.ListFilter{Status: project.StatusOngoing})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, first.ID, byStatus[0].ID)

	bySearch, err := svc.List(ctx, project.ListFilter{Search: "LIGHTS"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, second.ID, bySearch[0].ID)

	_, err = svc.List(ctx, project.ListFilter{Status: "DONE"})
	_, ok := perrors.AsFieldErrors(err)
	assert.True(t, ok)
}

func TestMapMarkersOnlyLocatedProjects(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	located := create(t, svc, &project.ProjectInput{
		Title:     project.Some("Located"),
		Latitude:  project.Some(decimal.RequireFromString("-1.286389")),
		Longitude: project.Some(decimal.RequireFromString("36.817223")),
	})
	create(t, svc, &project.ProjectInput{Title: project.Some("Half"), Latitude: project.Some(decimal.NewFromInt(1))})
	create(t, svc, &project.ProjectInput{Title: project.Some("Nowhere")})

	markers, err := svc.MapMarkers(ctx)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, located.ID, markers[0].ID)
	assert.True(t, markers[0].Latitude.Equal(decimal.RequireFromString("-1.286389")))
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, skipped, err := svc.SeedDemo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, created)
	assert.Zero(t, skipped)

	created, skipped, err = svc.SeedDemo(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 10, skipped)

	all, err := svc.List(ctx, project.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 10)
}
