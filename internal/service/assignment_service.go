package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/authz"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/repository"
	pkgerrors "github.com/cleytonmendest/viva-esperanca-sub000/pkg/errors"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/metrics"
)

// ── volunteer slot errors ──

var (
	ErrAssignmentNotFound      = errors.New("atribuição não encontrada")
	ErrAlreadyClaimed          = errors.New("tarefa já assumida por outro membro")
	ErrMemberRequired          = errors.New("membro não informado")
	ErrInvalidAssignmentStatus = errors.New("status de atribuição inválido")
	ErrAssignmentOpen          = errors.New("atribuição sem membro")

	// persistence failures, reported with a generic message
	ErrClaimFailed        = errors.New("falha ao assumir tarefa")
	ErrAssignFailed       = errors.New("falha ao atribuir tarefa")
	ErrStatusUpdateFailed = errors.New("falha ao atualizar status")
	ErrRemoveFailed       = errors.New("falha ao remover atribuição")
	ErrAddToEventFailed   = errors.New("falha ao adicionar tarefa ao evento")
)

// metric operation labels
const (
	opClaim        = "claim"
	opLeaderAssign = "leader_assign"
	opUpdateStatus = "update_status"
	opRemove       = "remove"
	opAddToEvent   = "add_to_event"
)

// AssignmentService volunteer slot state machine.
//
//	Open ──claim──▶ Claimed(pendente) ──respond──▶ confirmado | recusado
//	  └──────────── leader assign ───────────────▶ confirmado
//
// A leader may reassign from any state; deleting the row is the only end.
type AssignmentService interface {
	// ClaimForSelf attaches the caller to an open slot; status is untouched
	ClaimForSelf(ctx context.Context, s *Session, assignmentID string) (*dto.AssignmentResponse, error)
	// LeaderAssign attaches memberID and confirms in one step
	LeaderAssign(ctx context.Context, s *Session, assignmentID, memberID string) (*dto.AssignmentResponse, error)
	// UpdateStatus confirms or refuses; not audited
	UpdateStatus(ctx context.Context, s *Session, assignmentID, status string) (*dto.AssignmentResponse, error)
	// Remove deletes the slot; audited only when a member held it
	Remove(ctx context.Context, s *Session, assignmentID string) (*dto.AssignmentResponse, error)
	// AddToEvent opens one empty slot; not audited
	AddToEvent(ctx context.Context, s *Session, eventID, taskID string) (*dto.AssignmentResponse, error)
	// AddSlots opens quantity slots, or the task's default quantity when <= 0
	AddSlots(ctx context.Context, s *Session, eventID, taskID string, quantity int) ([]dto.AssignmentResponse, error)
	ListByEvent(ctx context.Context, eventID string) ([]dto.AssignmentResponse, error)
	ListMine(ctx context.Context, s *Session) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo    *repository.Repository
	audit   AuditRecorder
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewAssignmentService creates an AssignmentService
func NewAssignmentService(repo *repository.Repository, audit AuditRecorder, m *metrics.Metrics, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, audit: audit, metrics: m, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ClaimForSelf conditional claim of an open slot
// ════════════════════════════════════════════════════════════

func (s *assignmentService) ClaimForSelf(ctx context.Context, sess *Session, assignmentID string) (*dto.AssignmentResponse, error) {
	if !sess.Can(authz.TaskClaim) {
		return nil, s.fail(opClaim, ErrForbidden)
	}

	a, err := s.load(ctx, assignmentID, ErrClaimFailed)
	if err != nil {
		return nil, s.fail(opClaim, err)
	}
	if !a.IsOpen() {
		return nil, s.fail(opClaim, ErrAlreadyClaimed)
	}

	claimant, err := s.repo.Member.GetByID(ctx, sess.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.fail(opClaim, ErrMemberNotFound)
		}
		s.logger.Error("falha ao buscar membro", zap.String("member_id", sess.MemberID), zap.Error(err))
		return nil, s.fail(opClaim, ErrClaimFailed)
	}

	if err := s.repo.Assignment.ClaimOpen(ctx, a.ID, claimant.ID); err != nil {
		if errors.Is(err, pkgerrors.ErrConditionNotMet) {
			return nil, s.fail(opClaim, ErrAlreadyClaimed)
		}
		s.logger.Error("falha ao assumir tarefa",
			zap.String("assignment_id", a.ID),
			zap.String("member_id", claimant.ID),
			zap.Error(err),
		)
		return nil, s.fail(opClaim, ErrClaimFailed)
	}

	a.MemberID = &claimant.ID
	a.Member = claimant

	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionTaskSelfAssigned,
		ResourceType: model.ResourceEventAssignment,
		ResourceID:   a.ID,
		Details:      assignmentDetails(a, claimant, true),
		ActorID:      claimant.ID,
		ActorName:    claimant.FullName,
	})

	s.metrics.AssignmentTransition(opClaim, "success")
	return toAssignmentResponse(a), nil
}

// ════════════════════════════════════════════════════════════
// LeaderAssign overwrites the holder, pre-confirmed
// ════════════════════════════════════════════════════════════

func (s *assignmentService) LeaderAssign(ctx context.Context, sess *Session, assignmentID, memberID string) (*dto.AssignmentResponse, error) {
	if !sess.Can(authz.AssignmentManage) {
		return nil, s.fail(opLeaderAssign, ErrForbidden)
	}
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return nil, s.fail(opLeaderAssign, ErrMemberRequired)
	}

	a, err := s.load(ctx, assignmentID, ErrAssignFailed)
	if err != nil {
		return nil, s.fail(opLeaderAssign, err)
	}

	member, err := s.repo.Member.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.fail(opLeaderAssign, ErrMemberNotFound)
		}
		s.logger.Error("falha ao buscar membro", zap.String("member_id", memberID), zap.Error(err))
		return nil, s.fail(opLeaderAssign, ErrAssignFailed)
	}

	if err := s.repo.Assignment.AssignMember(ctx, a.ID, member.ID, model.AssignmentStatusConfirmed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.fail(opLeaderAssign, ErrAssignmentNotFound)
		}
		s.logger.Error("falha ao atribuir tarefa",
			zap.String("assignment_id", a.ID),
			zap.String("member_id", member.ID),
			zap.Error(err),
		)
		return nil, s.fail(opLeaderAssign, ErrAssignFailed)
	}

	a.MemberID = &member.ID
	a.Member = member
	a.Status = model.AssignmentStatusConfirmed

	// actor comes from the session, not from the request
	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionTaskAssigned,
		ResourceType: model.ResourceEventAssignment,
		ResourceID:   a.ID,
		Details:      assignmentDetails(a, member, false),
	})

	s.metrics.AssignmentTransition(opLeaderAssign, "success")
	return toAssignmentResponse(a), nil
}

// ════════════════════════════════════════════════════════════
// UpdateStatus the holder or a leader confirms or refuses
// ════════════════════════════════════════════════════════════

func (s *assignmentService) UpdateStatus(ctx context.Context, sess *Session, assignmentID, status string) (*dto.AssignmentResponse, error) {
	if status != model.AssignmentStatusConfirmed && status != model.AssignmentStatusRefused {
		return nil, s.fail(opUpdateStatus, ErrInvalidAssignmentStatus)
	}
	if sess == nil {
		return nil, s.fail(opUpdateStatus, ErrForbidden)
	}

	a, err := s.load(ctx, assignmentID, ErrStatusUpdateFailed)
	if err != nil {
		return nil, s.fail(opUpdateStatus, err)
	}
	if a.IsOpen() {
		return nil, s.fail(opUpdateStatus, ErrAssignmentOpen)
	}

	holder := *a.MemberID == sess.MemberID && sess.Can(authz.AssignmentRespond)
	if !holder && !sess.Can(authz.AssignmentManage) {
		return nil, s.fail(opUpdateStatus, ErrForbidden)
	}

	if err := s.repo.Assignment.UpdateStatus(ctx, a.ID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.fail(opUpdateStatus, ErrAssignmentNotFound)
		}
		s.logger.Error("falha ao atualizar status",
			zap.String("assignment_id", a.ID),
			zap.String("status", status),
			zap.Error(err),
		)
		return nil, s.fail(opUpdateStatus, ErrStatusUpdateFailed)
	}
	a.Status = status

	s.metrics.AssignmentTransition(opUpdateStatus, "success")
	return toAssignmentResponse(a), nil
}

// ════════════════════════════════════════════════════════════
// Remove: read holder, delete, audit if someone was removed
// ════════════════════════════════════════════════════════════

func (s *assignmentService) Remove(ctx context.Context, sess *Session, assignmentID string) (*dto.AssignmentResponse, error) {
	if !sess.Can(authz.AssignmentManage) {
		return nil, s.fail(opRemove, ErrForbidden)
	}

	// the departing member's name must be read before the row is gone
	a, err := s.load(ctx, assignmentID, ErrRemoveFailed)
	if err != nil {
		return nil, s.fail(opRemove, err)
	}

	if err := s.repo.Assignment.Delete(ctx, a.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.fail(opRemove, ErrAssignmentNotFound)
		}
		s.logger.Error("falha ao remover atribuição", zap.String("assignment_id", a.ID), zap.Error(err))
		return nil, s.fail(opRemove, ErrRemoveFailed)
	}

	if !a.IsOpen() {
		s.audit.Record(ctx, sess, AuditEntry{
			Action:       model.ActionTaskRemoved,
			ResourceType: model.ResourceEventAssignment,
			ResourceID:   a.ID,
			Details: model.TaskRemovalDetails{
				EventID:               a.EventID,
				EventName:             eventName(a),
				TaskID:                a.TaskID,
				TaskName:              taskName(a),
				RemovedFromMemberID:   *a.MemberID,
				RemovedFromMemberName: memberName(a.Member),
			},
		})
	}

	s.metrics.AssignmentTransition(opRemove, "success")
	return toAssignmentResponse(a), nil
}

// ════════════════════════════════════════════════════════════
// AddToEvent / AddSlots: open empty slots
// ════════════════════════════════════════════════════════════

func (s *assignmentService) AddToEvent(ctx context.Context, sess *Session, eventID, taskID string) (*dto.AssignmentResponse, error) {
	if !sess.Can(authz.AssignmentManage) {
		return nil, s.fail(opAddToEvent, ErrForbidden)
	}

	event, task, err := s.loadEventAndTask(ctx, eventID, taskID)
	if err != nil {
		return nil, s.fail(opAddToEvent, err)
	}

	a, err := s.openSlot(ctx, event, task)
	if err != nil {
		return nil, s.fail(opAddToEvent, err)
	}

	s.metrics.AssignmentTransition(opAddToEvent, "success")
	return toAssignmentResponse(a), nil
}

func (s *assignmentService) AddSlots(ctx context.Context, sess *Session, eventID, taskID string, quantity int) ([]dto.AssignmentResponse, error) {
	if !sess.Can(authz.AssignmentManage) {
		return nil, s.fail(opAddToEvent, ErrForbidden)
	}

	event, task, err := s.loadEventAndTask(ctx, eventID, taskID)
	if err != nil {
		return nil, s.fail(opAddToEvent, err)
	}
	if quantity <= 0 {
		quantity = task.Quantity
	}
	if quantity <= 0 {
		quantity = 1
	}

	result := make([]dto.AssignmentResponse, 0, quantity)
	for i := 0; i < quantity; i++ {
		a, err := s.openSlot(ctx, event, task)
		if err != nil {
			return result, s.fail(opAddToEvent, err)
		}
		s.metrics.AssignmentTransition(opAddToEvent, "success")
		result = append(result, *toAssignmentResponse(a))
	}
	return result, nil
}

func (s *assignmentService) openSlot(ctx context.Context, event *model.Event, task *model.Task) (*model.EventAssignment, error) {
	a := &model.EventAssignment{
		EventID: event.ID,
		TaskID:  task.ID,
		Status:  model.AssignmentStatusPending,
	}
	if err := s.repo.Assignment.Create(ctx, a); err != nil {
		s.logger.Error("falha ao adicionar tarefa ao evento",
			zap.String("event_id", event.ID),
			zap.String("task_id", task.ID),
			zap.Error(err),
		)
		return nil, ErrAddToEventFailed
	}
	a.Event = event
	a.Task = task
	return a, nil
}

func (s *assignmentService) loadEventAndTask(ctx context.Context, eventID, taskID string) (*model.Event, *model.Task, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEventNotFound
		}
		s.logger.Error("falha ao buscar evento", zap.String("event_id", eventID), zap.Error(err))
		return nil, nil, ErrAddToEventFailed
	}
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		s.logger.Error("falha ao buscar tarefa", zap.String("task_id", taskID), zap.Error(err))
		return nil, nil, ErrAddToEventFailed
	}
	return event, task, nil
}

// ════════════════════════════════════════════════════════════
// Reads
// ════════════════════════════════════════════════════════════

func (s *assignmentService) ListByEvent(ctx context.Context, eventID string) ([]dto.AssignmentResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("falha ao buscar evento", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	list, err := s.repo.Assignment.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("falha ao listar atribuições", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		list[i].Event = event
		result = append(result, *toAssignmentResponse(&list[i]))
	}
	return result, nil
}

func (s *assignmentService) ListMine(ctx context.Context, sess *Session) ([]dto.AssignmentResponse, error) {
	if sess == nil {
		return nil, ErrForbidden
	}

	list, err := s.repo.Assignment.ListByMember(ctx, sess.MemberID)
	if err != nil {
		s.logger.Error("falha ao listar atribuições do membro", zap.String("member_id", sess.MemberID), zap.Error(err))
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool {
		return eventTime(&list[i]).Before(eventTime(&list[j]))
	})

	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAssignmentResponse(&list[i]))
	}
	return result, nil
}

// ── helpers ──

// load reads the slot with its event, task and member; driver errors are
// logged and replaced by failErr
func (s *assignmentService) load(ctx context.Context, id string, failErr error) (*model.EventAssignment, error) {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("falha ao buscar atribuição", zap.String("assignment_id", id), zap.Error(err))
		return nil, failErr
	}
	return a, nil
}

// fail counts the failed transition and returns err unchanged
func (s *assignmentService) fail(op string, err error) error {
	outcome := "error"
	switch {
	case errors.Is(err, ErrAlreadyClaimed):
		outcome = "already_claimed"
	case errors.Is(err, ErrForbidden):
		outcome = "forbidden"
	case errors.Is(err, ErrAssignmentNotFound), errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrMemberNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrMemberRequired), errors.Is(err, ErrInvalidAssignmentStatus),
		errors.Is(err, ErrAssignmentOpen):
		outcome = "invalid"
	}
	s.metrics.AssignmentTransition(op, outcome)
	return err
}

func assignmentDetails(a *model.EventAssignment, member *model.Member, self bool) model.TaskAssignmentDetails {
	return model.TaskAssignmentDetails{
		EventID:              a.EventID,
		EventName:            eventName(a),
		TaskID:               a.TaskID,
		TaskName:             taskName(a),
		AssignedToMemberID:   member.ID,
		AssignedToMemberName: member.FullName,
		IsSelfAssigned:       self,
	}
}

func eventName(a *model.EventAssignment) string {
	if a.Event == nil {
		return ""
	}
	return a.Event.Name
}

func taskName(a *model.EventAssignment) string {
	if a.Task == nil {
		return ""
	}
	return a.Task.Name
}

func memberName(m *model.Member) string {
	if m == nil || m.FullName == "" {
		return UnknownActorName
	}
	return m.FullName
}

func eventTime(a *model.EventAssignment) time.Time {
	if a.Event == nil {
		return time.Time{}
	}
	return a.Event.EventDate
}

func toAssignmentResponse(a *model.EventAssignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:        a.ID,
		EventID:   a.EventID,
		TaskID:    a.TaskID,
		MemberID:  a.MemberID,
		Status:    a.Status,
		IsOpen:    a.IsOpen(),
		CreatedAt: dto.FormatTime(a.CreatedAt),
	}
	if a.Event != nil {
		resp.EventName = a.Event.Name
		resp.EventDate = dto.FormatTime(a.Event.EventDate)
	}
	if a.Task != nil {
		resp.TaskName = a.Task.Name
	}
	if a.Member != nil {
		resp.MemberName = a.Member.FullName
	}
	return resp
}
