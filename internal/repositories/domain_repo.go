package repositories

import (
	"context"
	"errors"
	"fmt"

	"pethaul/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DomainRepository stores client tokens per (user, host).
type DomainRepository interface {
	Find(ctx context.Context, userID, host string) (*models.Domain, error)
	Upsert(ctx context.Context, userID, host, token string) error
	UpdateToken(ctx context.Context, id, token string) error
}

// GORMDomainRepository is a GORM implementation of DomainRepository.
type GORMDomainRepository struct {
	db *gorm.DB
}

func NewGORMDomainRepository(db *gorm.DB) *GORMDomainRepository {
	return &GORMDomainRepository{db: db}
}

// Find returns the token record of userID for host.
func (r *GORMDomainRepository) Find(ctx context.Context, userID, host string) (*models.Domain, error) {
	var d models.Domain
	if err := r.db.WithContext(ctx).Where("user_id = ? AND host = ?", userID, host).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("token for host %s: %w", host, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read token for host %s: %w", host, err)
	}
	return &d, nil
}

// Upsert stores token for (userID, host), replacing any previous one.
func (r *GORMDomainRepository) Upsert(ctx context.Context, userID, host, token string) error {
	d := models.Domain{UserID: userID, Host: host, ClientToken: token}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "host"}},
		DoUpdates: clause.AssignmentColumns([]string{"client_token", "updated_at"}),
	}).Create(&d).Error
	if err != nil {
		return fmt.Errorf("failed to store token for host %s: %w", host, err)
	}
	return nil
}

// UpdateToken replaces the token of an existing record.
func (r *GORMDomainRepository) UpdateToken(ctx context.Context, id, token string) error {
	if err := r.db.WithContext(ctx).Model(&models.Domain{}).Where("id = ?", id).Update("client_token", token).Error; err != nil {
		return fmt.Errorf("failed to update token %s: %w", id, err)
	}
	return nil
}
