package services

import (
	"context"
	"fmt"

	"pethaul/internal/models"
	"pethaul/internal/repositories"
)

// PetService manages the pet profiles of the caller.
type PetService struct {
	repo repositories.PetRepository
}

func NewPetService(repo repositories.PetRepository) *PetService {
	return &PetService{repo: repo}
}

func validatePet(pet *models.Pet) error {
	if pet.Name == "" || pet.PetType == "" || pet.Breed == "" {
		return fmt.Errorf("petName, petType and breed are required: %w", ErrInvalidRequest)
	}
	if pet.Gender != models.GenderFemale && pet.Gender != models.GenderMale {
		return fmt.Errorf("gender must be F or M: %w", ErrInvalidRequest)
	}
	if pet.Age < 0 {
		return fmt.Errorf("age must not be negative: %w", ErrInvalidRequest)
	}
	for i := range pet.Images {
		pet.Images[i].Representative = i == 0
	}
	return nil
}

func (s *PetService) List(ctx context.Context, principal models.Principal) ([]models.Pet, error) {
	return s.repo.ListByUser(ctx, principal.UserID)
}

// Create registers a pet owned by the caller.
func (s *PetService) Create(ctx context.Context, principal models.Principal, pet *models.Pet) error {
	if err := validatePet(pet); err != nil {
		return err
	}
	pet.ID = ""
	pet.UserID = principal.UserID
	return s.repo.Create(ctx, pet)
}

// owned loads a pet and fails with ErrForbidden when it belongs to someone else.
func (s *PetService) owned(ctx context.Context, principal models.Principal, id string) (*models.Pet, error) {
	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet.UserID != principal.UserID {
		return nil, fmt.Errorf("pet %s: %w", id, ErrForbidden)
	}
	return pet, nil
}

// Update replaces the profile of one of the caller's pets. Images are kept
// unless pet.Images is non-nil.
func (s *PetService) Update(ctx context.Context, principal models.Principal, id string, pet *models.Pet) error {
	if err := validatePet(pet); err != nil {
		return err
	}
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	pet.ID = id
	pet.UserID = principal.UserID
	return s.repo.Update(ctx, pet)
}

func (s *PetService) Delete(ctx context.Context, principal models.Principal, id string) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
