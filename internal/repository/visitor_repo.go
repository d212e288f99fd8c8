package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
)

// VisitorRepository visitor intake records
type VisitorRepository interface {
	Create(ctx context.Context, v *model.Visitor) error
	GetByID(ctx context.Context, id string) (*model.Visitor, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.Visitor, int64, error)
}

type visitorRepo struct {
	db *gorm.DB
}

// NewVisitorRepo creates a VisitorRepository
func NewVisitorRepo(db *gorm.DB) VisitorRepository {
	return &visitorRepo{db: db}
}

func (r *visitorRepo) Create(ctx context.Context, v *model.Visitor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *visitorRepo) GetByID(ctx context.Context, id string) (*model.Visitor, error) {
	var v model.Visitor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *visitorRepo) List(ctx context.Context, status string, offset, limit int) ([]model.Visitor, int64, error) {
	var visitors []model.Visitor
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Visitor{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&visitors).Error; err != nil {
		return nil, 0, err
	}

	return visitors, total, nil
}
