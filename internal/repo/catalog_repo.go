// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides read access to users and resources,
// which are owned by the identity and catalog collaborators, plus the
// inserts used for seeding.
package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/campus-resource-hub/internal/domain"
)

// GetUser fetches a user by ID, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by case-insensitive email, or ErrNotFound.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts u as-is.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return db.WithContext(ctx).Create(u).Error
}

// GetResource fetches a resource by ID. Unless includeUnpublished is set,
// only published resources are returned; anything else is ErrNotFound.
func GetResource(ctx context.Context, db *gorm.DB, id string, includeUnpublished bool) (*domain.Resource, error) {
	var r domain.Resource
	q := db.WithContext(ctx).Where("id = ?", id)
	if !includeUnpublished {
		q = q.Where("status = ?", domain.ResourcePublished)
	}
	if err := q.First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateResource inserts r as-is.
func CreateResource(ctx context.Context, db *gorm.DB, r *domain.Resource) error {
	return db.WithContext(ctx).Create(r).Error
}
