package repository

import (
	"context"
	"testing"

	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdminRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAdminRepository()

	_, err := repo.Insert(ctx, "Fonsecars", "h0")
	require.NoError(t, err)
	_, err = repo.Insert(ctx, "alice", "h1")
	require.NoError(t, err)
	_, err = repo.Insert(ctx, "bob", "h2")
	require.NoError(t, err)

	_, err = repo.Insert(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrDuplicate)

	admins, err := repo.ListAllExceptSuperadmin(ctx, "Fonsecars")
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, "alice", admins[0].Username)
	assert.Equal(t, "bob", admins[1].Username)

	require.NoError(t, repo.UpdatePasswordHash(ctx, "alice", "h1b"))
	a, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h1b", a.PasswordHash)

	require.NoError(t, repo.Delete(ctx, "bob"))
	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "bob"), ErrNotFound)
	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, "bob", "x"), ErrNotFound)
}

func TestMemoryVehicleRepository_Filters(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryVehicleRepository()

	for _, v := range []model.Vehicle{
		{Brand: "Toyota", Model: "Hilux", Price: "$20.000.000", Category: "Camioneta", Condition: "usado"},
		{Brand: "Toyota", Model: "Yaris", Price: "$9.000.000", Category: "Sedan", Condition: "nuevo"},
		{Brand: "Kia", Model: "Sportage", Price: "$15.000.000", Category: "SUV", Condition: "usado"},
	} {
		v := v
		require.NoError(t, repo.Create(ctx, &v))
	}

	all, err := repo.List(ctx, model.VehicleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Sportage", all[0].Model, "newest first")

	got, err := repo.List(ctx, model.VehicleFilter{Brand: "toyota", Condition: "USADO"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Hilux", got[0].Model)

	got, err = repo.List(ctx, model.VehicleFilter{Query: "yar"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Yaris", got[0].Model)

	require.NoError(t, repo.Delete(ctx, got[0].ID))
	_, err = repo.GetByID(ctx, got[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
