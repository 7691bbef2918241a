package repository

import (
	"context"
	"fmt"

	"coolserve/database"
	"coolserve/models"

	"gorm.io/gorm"
)

// ServiceRepository defines persistence operations for service offerings.
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Service, error)
	List(ctx context.Context) ([]models.Service, error)
}

// GormServiceRepo implements ServiceRepository on Postgres.
type GormServiceRepo struct {
	db *gorm.DB
}

func NewGormServiceRepo() *GormServiceRepo {
	return &GormServiceRepo{db: database.GetDB()}
}

func NewGormServiceRepoWithDB(db *gorm.DB) *GormServiceRepo {
	return &GormServiceRepo{db: db}
}

func (r *GormServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get service %s: %w", id, err)
	}
	return &s, nil
}

func (r *GormServiceRepo) List(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	if err := r.db.WithContext(ctx).Order("title").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return out, nil
}
