package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/repository"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/metrics"
)

// UnknownActorName display name used when the actor cannot be looked up
const UnknownActorName = "Usuário desconhecido"

const defaultAuditTimeout = 5 * time.Second

// AuditEntry one action to record. ActorID/ActorName override the session.
type AuditEntry struct {
	Action       model.ActionType
	ResourceType model.ResourceType
	ResourceID   string
	Details      model.AuditDetails
	ActorID      string
	ActorName    string
}

// AuditPublisher receives every persisted entry
type AuditPublisher interface {
	PublishAudit(ctx context.Context, entry *model.AuditLog) error
}

// AuditRecorder appends entries to the audit trail.
//
// Record has no result: the primary operation has already committed when it
// runs, and a failed audit write is logged and counted, never returned.
type AuditRecorder interface {
	Record(ctx context.Context, s *Session, e AuditEntry)
}

type auditRecorder struct {
	repo      *repository.Repository
	publisher AuditPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	timeout   time.Duration
}

// NewAuditRecorder creates an AuditRecorder; publisher may be nil
func NewAuditRecorder(repo *repository.Repository, publisher AuditPublisher, m *metrics.Metrics, logger *zap.Logger) AuditRecorder {
	return &auditRecorder{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		timeout:   defaultAuditTimeout,
	}
}

// ════════════════════════════════════════════════════════════
// Record best-effort append
// ════════════════════════════════════════════════════════════

func (r *auditRecorder) Record(ctx context.Context, s *Session, e AuditEntry) {
	// the caller's request may end right after the primary write
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := model.CheckAuditDetails(e.Action, e.Details); err != nil {
		r.logger.Error("entrada de auditoria rejeitada",
			zap.String("action_type", string(e.Action)),
			zap.String("resource_id", e.ResourceID),
			zap.Error(err),
		)
		r.metrics.AuditWrite(string(e.Action), "rejected")
		return
	}

	raw, err := json.Marshal(e.Details)
	if err != nil {
		r.logger.Error("falha ao serializar detalhes de auditoria",
			zap.String("action_type", string(e.Action)),
			zap.Error(err),
		)
		r.metrics.AuditWrite(string(e.Action), "rejected")
		return
	}

	actorID, actorName := r.resolveActor(ctx, s, e)

	entry := &model.AuditLog{
		UserID:       actorID,
		MemberName:   actorName,
		ActionType:   e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Details:      raw,
	}
	if err := r.repo.AuditLog.Create(ctx, entry); err != nil {
		r.logger.Error("falha ao gravar log de auditoria",
			zap.String("action_type", string(e.Action)),
			zap.String("resource_id", e.ResourceID),
			zap.Error(err),
		)
		r.metrics.AuditWrite(string(e.Action), "failure")
		return
	}
	r.metrics.AuditWrite(string(e.Action), "success")

	if r.publisher != nil {
		if err := r.publisher.PublishAudit(ctx, entry); err != nil {
			r.logger.Warn("falha ao publicar evento de auditoria",
				zap.String("audit_id", entry.ID),
				zap.String("action_type", string(e.Action)),
				zap.Error(err),
			)
		}
	}
}

// resolveActor: explicit actor, else the session; a missing name is looked
// up in the member directory. With no actor at all the entry is anonymous
// and carries the subject's name.
func (r *auditRecorder) resolveActor(ctx context.Context, s *Session, e AuditEntry) (*string, string) {
	actorID := e.ActorID
	if actorID == "" && s != nil {
		actorID = s.MemberID
	}
	if actorID == "" {
		return nil, e.Details.SubjectName()
	}

	name := e.ActorName
	if name == "" {
		member, err := r.repo.Member.GetByID(ctx, actorID)
		if err != nil {
			r.logger.Warn("ator da auditoria não encontrado",
				zap.String("actor_id", actorID),
				zap.Error(err),
			)
			name = UnknownActorName
		} else {
			name = member.FullName
		}
	}
	return &actorID, name
}

// ════════════════════════════════════════════════════════════
// AuditService read side
// ════════════════════════════════════════════════════════════

// AuditService reads the audit trail
type AuditService interface {
	List(ctx context.Context, req *dto.AuditLogListRequest) ([]dto.AuditLogResponse, int64, error)
}

type auditService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditService creates an AuditService
func NewAuditService(repo *repository.Repository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) List(ctx context.Context, req *dto.AuditLogListRequest) ([]dto.AuditLogResponse, int64, error) {
	filter, err := auditFilter(req)
	if err != nil {
		return nil, 0, err
	}

	logs, total, err := s.repo.AuditLog.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("falha ao listar logs de auditoria", zap.Error(err))
		return nil, 0, err
	}

	return toAuditLogResponses(logs, s.logger), total, nil
}

func auditFilter(req *dto.AuditLogListRequest) (repository.AuditLogFilter, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return repository.AuditLogFilter{}, err
	}
	if req.ActionType != "" && !model.ActionType(req.ActionType).Valid() {
		return repository.AuditLogFilter{}, model.ErrUnknownAction
	}
	return repository.AuditLogFilter{
		ActionType:   model.ActionType(req.ActionType),
		ResourceType: model.ResourceType(req.ResourceType),
		ResourceID:   req.ResourceID,
		UserID:       req.UserID,
		From:         from,
		To:           to,
	}, nil
}

// parseTimeParam accepts 2006-01-02 or RFC3339; empty means unset.
// dateOnly reports the first form.
func parseTimeParam(v string) (t *time.Time, dateOnly bool, err error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, false, nil
	}
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return &ts, false, nil
	}
	d, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return nil, false, ErrInvalidTimeRange
	}
	return &d, true, nil
}

// parseRange parses a from/to window. The returned to is exclusive; a
// date-only to covers that whole day, so from=to=2026-03-01 selects it.
func parseRange(from, to string) (*time.Time, *time.Time, error) {
	f, _, err := parseTimeParam(from)
	if err != nil {
		return nil, nil, err
	}
	t, dateOnly, err := parseTimeParam(to)
	if err != nil {
		return nil, nil, err
	}
	if t != nil && dateOnly {
		end := t.AddDate(0, 0, 1)
		t = &end
	}
	if f != nil && t != nil && !f.Before(*t) {
		return nil, nil, ErrInvalidTimeRange
	}
	return f, t, nil
}

func toAuditLogResponses(logs []model.AuditLog, logger *zap.Logger) []dto.AuditLogResponse {
	result := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		details, err := model.DecodeAuditDetails(l.ActionType, l.Details)
		if err != nil {
			logger.Warn("detalhes de auditoria ilegíveis",
				zap.String("audit_id", l.ID),
				zap.String("action_type", string(l.ActionType)),
				zap.Error(err),
			)
		}
		result = append(result, dto.AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			MemberName:   l.MemberName,
			ActionType:   l.ActionType,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			Details:      details,
			CreatedAt:    dto.FormatTime(l.CreatedAt),
		})
	}
	return result
}
