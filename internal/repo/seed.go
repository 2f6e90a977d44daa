package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/campus-resource-hub/internal/domain"
)

// seedNamespace derives stable ids for demo rows so reseeding is a no-op.
var seedNamespace = uuid.MustParse("5b0c8f5e-3c1a-4f5e-9a47-2f6b7e1d9c30")

// SeedID returns the deterministic id of a demo row keyed by name.
func SeedID(name string) string {
	return uuid.NewSHA1(seedNamespace, []byte(name)).String()
}

type demoUser struct {
	name, email, role string
}

type demoResource struct {
	ownerEmail, title string
	requiresApproval  bool
}

var (
	demoUsers = []demoUser{
		{"Ada Admin", "ada.admin@campus.edu", domain.RoleAdmin},
		{"Sam Staff", "sam.staff@campus.edu", domain.RoleStaff},
		{"Sky Staff", "sky.staff@campus.edu", domain.RoleStaff},
		{"Alice Student", "alice@student.edu", domain.RoleStudent},
		{"Ben Student", "ben@student.edu", domain.RoleStudent},
	}
	demoResources = []demoResource{
		{"sam.staff@campus.edu", "Innovation Lab", true},
		{"sam.staff@campus.edu", "Mobile AV Cart", false},
		{"sky.staff@campus.edu", "Wellness Reflection Room", true},
	}
)

// Seed inserts demo users and resources. Every demo account uses password,
// hashed once with hash. Existing rows are left untouched.
func Seed(ctx context.Context, db *gorm.DB, password string, hash func(string) (string, error)) error {
	pw, err := hash(password)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make([]domain.User, 0, len(demoUsers))
		for _, u := range demoUsers {
			users = append(users, domain.User{
				ID:           SeedID(u.email),
				Name:         u.name,
				Email:        u.email,
				PasswordHash: pw,
				Role:         u.role,
				IsActive:     true,
			})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error; err != nil {
			return err
		}

		resources := make([]domain.Resource, 0, len(demoResources))
		for _, r := range demoResources {
			resources = append(resources, domain.Resource{
				ID:               SeedID(r.title),
				OwnerID:          SeedID(r.ownerEmail),
				Title:            r.title,
				RequiresApproval: r.requiresApproval,
				Status:           domain.ResourcePublished,
			})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&resources).Error
	})
}
