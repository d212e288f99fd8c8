package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	pkgerrors "github.com/cleytonmendest/viva-esperanca-sub000/pkg/errors"
)

// AssignmentRepository event_assignments access. Every write is a single-row
// statement; none of them opens a transaction with the audit write.
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.EventAssignment) error
	GetByID(ctx context.Context, id string) (*model.EventAssignment, error)
	// ClaimOpen attaches memberID only while the slot is still open.
	// Returns ErrConditionNotMet when another member got there first.
	ClaimOpen(ctx context.Context, id, memberID string) error
	// AssignMember overwrites the holder and status unconditionally
	AssignMember(ctx context.Context, id, memberID, status string) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	ListByEvent(ctx context.Context, eventID string) ([]model.EventAssignment, error)
	ListByMember(ctx context.Context, memberID string) ([]model.EventAssignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo creates an AssignmentRepository
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.EventAssignment) error {
	return r.db.WithContext(ctx).Omit("Event", "Task", "Member").Create(a).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.EventAssignment, error) {
	var a model.EventAssignment
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Task").
		Preload("Member", withDeleted).
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) ClaimOpen(ctx context.Context, id, memberID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.EventAssignment{}).
		Where("id = ? AND member_id IS NULL", id).
		Updates(map[string]interface{}{
			"member_id":  memberID,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrConditionNotMet
	}
	return nil
}

func (r *assignmentRepo) AssignMember(ctx context.Context, id, memberID, status string) error {
	return r.updateByID(ctx, id, map[string]interface{}{
		"member_id":  memberID,
		"status":     status,
		"updated_at": time.Now(),
	})
}

func (r *assignmentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.updateByID(ctx, id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

func (r *assignmentRepo) updateByID(ctx context.Context, id string, values map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.EventAssignment{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.EventAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assignmentRepo) ListByEvent(ctx context.Context, eventID string) ([]model.EventAssignment, error) {
	var list []model.EventAssignment
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Member", withDeleted).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *assignmentRepo) ListByMember(ctx context.Context, memberID string) ([]model.EventAssignment, error) {
	var list []model.EventAssignment
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Task").
		Where("member_id = ?", memberID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// withDeleted keeps the name of a soft-deleted holder loadable, removal
// audits snapshot it
func withDeleted(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
