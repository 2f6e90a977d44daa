// Package services – IdentityService and CatalogService
//
// Thin read-side adapters over the users and resources tables, which are
// owned by other parts of the campus platform. Authentication compares a
// bcrypt hash; everything else is a lookup translated to service errors.
package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/repo"
)

// IdentityService resolves callers.
type IdentityService struct {
	DB *gorm.DB
}

// Authenticate returns the user matching email and password. Unknown emails
// and wrong passwords both yield ErrInvalidCredentials; deactivated accounts
// yield ErrAccountDisabled.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	return u, nil
}

// GetUser returns a user or ErrUserNotFound.
func (s *IdentityService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// HashPassword returns a bcrypt hash suitable for domain.User.PasswordHash.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CatalogService resolves bookable resources.
type CatalogService struct {
	DB *gorm.DB
}

// GetResource returns a resource or ErrResourceNotFound. Drafts and archived
// listings are only visible with includeUnpublished.
func (s *CatalogService) GetResource(ctx context.Context, id string, includeUnpublished bool) (*domain.Resource, error) {
	r, err := repo.GetResource(ctx, s.DB, id, includeUnpublished)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return r, nil
}
