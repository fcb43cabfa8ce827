package services_test

import (
	"context"
	"testing"
	"time"

	"pethaul/internal/database"
	"pethaul/internal/models"
	"pethaul/internal/repositories"
	"pethaul/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	db := database.OpenTest(t)
	users := repositories.NewGORMUserRepository(db)
	auth := newAuthService(users)
	svc := services.NewTokenService(auth, users, repositories.NewGORMDomainRepository(db), 24*time.Hour)
	owner := seedUser(t, db, "shop@example.com", models.RoleAdmin)
	p := principalOf(owner)

	// Nothing to read or refresh before the first issue.
	_, err := svc.Read(ctx, p, "shop.example.com")
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = svc.Refresh(ctx, p, "shop.example.com")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.Issue(ctx, p, "")
	assert.ErrorIs(t, err, services.ErrInvalidRequest)

	first, err := svc.Issue(ctx, p, "shop.example.com")
	require.NoError(t, err)
	stored, err := svc.Read(ctx, p, "shop.example.com")
	require.NoError(t, err)
	assert.Equal(t, first, stored)

	principal, err := auth.ValidateToken(first)
	require.NoError(t, err)
	assert.Equal(t, p, principal)

	// Issuing again replaces the token instead of adding a second record.
	second, err := svc.Issue(ctx, p, "shop.example.com")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	var records int64
	require.NoError(t, db.Model(&models.Domain{}).Count(&records).Error)
	assert.Equal(t, int64(1), records)

	refreshed, err := svc.Refresh(ctx, p, "shop.example.com")
	require.NoError(t, err)
	assert.NotEqual(t, second, refreshed)
	stored, err = svc.Read(ctx, p, "shop.example.com")
	require.NoError(t, err)
	assert.Equal(t, refreshed, stored)

	// Tokens are bound to the host they were issued for.
	_, err = svc.Read(ctx, p, "other.example.com")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
