package repositories

import (
	"context"
	"errors"
	"fmt"

	"pethaul/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PetRepository defines the interface for pet profile data access.
type PetRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Pet, error)
	GetByID(ctx context.Context, id string) (*models.Pet, error)
	Create(ctx context.Context, pet *models.Pet) error
	Update(ctx context.Context, pet *models.Pet) error
	Delete(ctx context.Context, id string) error
}

// GORMPetRepository is a GORM implementation of PetRepository.
type GORMPetRepository struct {
	db *gorm.DB
}

func NewGORMPetRepository(db *gorm.DB) *GORMPetRepository {
	return &GORMPetRepository{db: db}
}

// ListByUser returns the pets of userID with their images, newest first.
func (r *GORMPetRepository) ListByUser(ctx context.Context, userID string) ([]models.Pet, error) {
	var pets []models.Pet
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&pets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pets of user %s: %w", userID, err)
	}
	return pets, nil
}

func (r *GORMPetRepository) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).Preload("Images").First(&pet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pet by ID %s: %w", id, err)
	}
	return &pet, nil
}

// Create inserts the pet and its images.
func (r *GORMPetRepository) Create(ctx context.Context, pet *models.Pet) error {
	if err := r.db.WithContext(ctx).Create(pet).Error; err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

// Update overwrites the profile fields. When images are given they replace
// the existing ones.
func (r *GORMPetRepository) Update(ctx context.Context, pet *models.Pet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Pet{}).Where("id = ?", pet.ID).
			Select("name", "pet_type", "breed", "gender", "age", "updated_at").
			Updates(pet)
		if res.Error != nil {
			return fmt.Errorf("failed to update pet: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("pet with ID %s: %w", pet.ID, ErrNotFound)
		}
		if pet.Images == nil {
			return nil
		}
		if err := tx.Where("pet_id = ?", pet.ID).Delete(&models.PetImage{}).Error; err != nil {
			return fmt.Errorf("failed to replace images of pet %s: %w", pet.ID, err)
		}
		if len(pet.Images) == 0 {
			return nil
		}
		for i := range pet.Images {
			pet.Images[i].ID = ""
			pet.Images[i].PetID = pet.ID
		}
		if err := tx.Omit(clause.Associations).Create(&pet.Images).Error; err != nil {
			return fmt.Errorf("failed to replace images of pet %s: %w", pet.ID, err)
		}
		return nil
	})
}

// Delete removes the pet and its images.
func (r *GORMPetRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pet_id = ?", id).Delete(&models.PetImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images of pet %s: %w", id, err)
		}
		res := tx.Delete(&models.Pet{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete pet: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
		}
		return nil
	})
}
