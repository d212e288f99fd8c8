package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	pkgerrors "github.com/cleytonmendest/viva-esperanca-sub000/pkg/errors"
)

// MemberFilter list filters
type MemberFilter struct {
	Status  string
	Role    string
	Keyword string
}

// MemberRepository member directory
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id string) (*model.Member, error)
	GetByEmail(ctx context.Context, email string) (*model.Member, error)
	Update(ctx context.Context, member *model.Member) error
	Delete(ctx context.Context, id string, deletedBy *string) error
	List(ctx context.Context, filter MemberFilter, offset, limit int) ([]model.Member, int64, error)
}

type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo creates a MemberRepository
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update writes the mutable columns guarded by the row version
func (r *memberRepo) Update(ctx context.Context, member *model.Member) error {
	oldVersion := member.Version
	result := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ? AND version = ?", member.ID, oldVersion).
		Updates(map[string]interface{}{
			"full_name":     member.FullName,
			"email":         member.Email,
			"phone":         member.Phone,
			"role":          member.Role,
			"status":        member.Status,
			"password_hash": member.PasswordHash,
			"updated_by":    member.UpdatedBy,
			"updated_at":    time.Now(),
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	member.Version = oldVersion + 1
	return nil
}

// Delete soft-deletes the member and reopens every slot they held, in one
// transaction. The row survives, so the SET NULL foreign key never fires.
func (r *memberRepo) Delete(ctx context.Context, id string, deletedBy *string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Member{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"deleted_by": deletedBy,
				"deleted_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&model.EventAssignment{}).
			Where("member_id = ?", id).
			Updates(map[string]interface{}{
				"member_id":  nil,
				"status":     model.AssignmentStatusPending,
				"updated_at": now,
			}).Error
	})
}

func (r *memberRepo) List(ctx context.Context, filter MemberFilter, offset, limit int) ([]model.Member, int64, error) {
	var members []model.Member
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Member{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("full_name LIKE ? OR email LIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("full_name ASC").
		Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}
