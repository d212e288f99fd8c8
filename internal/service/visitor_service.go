package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/repository"
)

var (
	ErrVisitorNotFound = errors.New("visitante não encontrado")
)

// VisitorService public intake funnel
type VisitorService interface {
	// Submit is anonymous: the audit entry has no actor and carries the
	// visitor's own name
	Submit(ctx context.Context, req *dto.SubmitVisitorRequest) (*dto.VisitorResponse, error)
	Get(ctx context.Context, id string) (*dto.VisitorResponse, error)
	List(ctx context.Context, req *dto.VisitorListRequest) ([]dto.VisitorResponse, int64, error)
}

type visitorService struct {
	repo   *repository.Repository
	audit  AuditRecorder
	logger *zap.Logger
}

// NewVisitorService creates a VisitorService
func NewVisitorService(repo *repository.Repository, audit AuditRecorder, logger *zap.Logger) VisitorService {
	return &visitorService{repo: repo, audit: audit, logger: logger}
}

func (s *visitorService) Submit(ctx context.Context, req *dto.SubmitVisitorRequest) (*dto.VisitorResponse, error) {
	v := &model.Visitor{
		FullName:      strings.TrimSpace(req.FullName),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         strings.TrimSpace(req.Phone),
		HowHeard:      req.HowHeard,
		PrayerRequest: req.PrayerRequest,
		WantsContact:  req.WantsContact,
		Status:        model.VisitorStatusNew,
	}
	if req.FirstVisitDate != "" {
		d, err := time.ParseInLocation("2006-01-02", req.FirstVisitDate, time.Local)
		if err != nil {
			return nil, ErrInvalidTimeRange
		}
		v.FirstVisitDate = &d
	}

	if err := s.repo.Visitor.Create(ctx, v); err != nil {
		s.logger.Error("falha ao registrar visitante", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, nil, AuditEntry{
		Action:       model.ActionVisitorSubmitted,
		ResourceType: model.ResourceVisitor,
		ResourceID:   v.ID,
		Details: model.VisitorDetails{
			VisitorName:    v.FullName,
			Email:          v.Email,
			Phone:          v.Phone,
			HowHeard:       v.HowHeard,
			WantsContact:   v.WantsContact,
			FirstVisitDate: req.FirstVisitDate,
		},
	})

	return toVisitorResponse(v), nil
}

func (s *visitorService) Get(ctx context.Context, id string) (*dto.VisitorResponse, error) {
	v, err := s.repo.Visitor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		s.logger.Error("falha ao buscar visitante", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toVisitorResponse(v), nil
}

func (s *visitorService) List(ctx context.Context, req *dto.VisitorListRequest) ([]dto.VisitorResponse, int64, error) {
	visitors, total, err := s.repo.Visitor.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("falha ao listar visitantes", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.VisitorResponse, 0, len(visitors))
	for i := range visitors {
		result = append(result, *toVisitorResponse(&visitors[i]))
	}
	return result, total, nil
}

func toVisitorResponse(v *model.Visitor) *dto.VisitorResponse {
	resp := &dto.VisitorResponse{
		ID:            v.ID,
		FullName:      v.FullName,
		Email:         v.Email,
		Phone:         v.Phone,
		HowHeard:      v.HowHeard,
		PrayerRequest: v.PrayerRequest,
		WantsContact:  v.WantsContact,
		Status:        v.Status,
		CreatedAt:     dto.FormatTime(v.CreatedAt),
	}
	if v.FirstVisitDate != nil {
		resp.FirstVisitDate = v.FirstVisitDate.Format("2006-01-02")
	}
	return resp
}
