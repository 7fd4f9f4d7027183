package repo

import (
	"WebCarros/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	u, err := r.CreateUser(ctx, &model.User{ID: "u1", Email: "ana@example.com", Password: "hash"})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	got, err := r.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	got, err = r.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)

	// email уникален
	_, err = r.CreateUser(ctx, &model.User{ID: "u2", Email: "ana@example.com", Password: "x"})
	assert.Error(t, err)

	got, err = r.GetUserByEmail(ctx, "nobody@example.com")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdateDisplayName(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	_, err := r.CreateUser(ctx, &model.User{ID: "u1", Email: "ana@example.com", Password: "hash"})
	require.NoError(t, err)

	require.NoError(t, r.UpdateDisplayName(ctx, "u1", "Ana"))
	got, err := r.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.DisplayName)

	assert.ErrorIs(t, r.UpdateDisplayName(ctx, "missing", "X"), gorm.ErrRecordNotFound)
}
