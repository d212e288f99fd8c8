package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/repository"
)

// ── event errors ──

var (
	ErrEventNotFound = errors.New("evento não encontrado")
)

// EventService event CRUD; every mutation is audited
type EventService interface {
	Create(ctx context.Context, s *Session, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	Get(ctx context.Context, id string) (*dto.EventResponse, error)
	List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error)
	Update(ctx context.Context, s *Session, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, s *Session, id string) error
}

type eventService struct {
	repo   *repository.Repository
	audit  AuditRecorder
	logger *zap.Logger
	now    func() time.Time
}

// NewEventService creates an EventService
func NewEventService(repo *repository.Repository, audit AuditRecorder, logger *zap.Logger) EventService {
	return &eventService{repo: repo, audit: audit, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, sess *Session, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	event := &model.Event{
		Name:        req.Name,
		Description: req.Description,
		EventDate:   req.EventDate,
		Location:    req.Location,
	}
	event.CreatedBy = sess.actorID()
	event.UpdatedBy = sess.actorID()

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("falha ao criar evento", zap.Error(err))
		return nil, err
	}

	date := event.EventDate
	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionEventCreated,
		ResourceType: model.ResourceEvent,
		ResourceID:   event.ID,
		Details:      model.EventDetails{EventName: event.Name, Date: &date},
	})

	return toEventResponse(event), nil
}

// ────────────────────── Get ──────────────────────

func (s *eventService) Get(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetWithAssignments(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("falha ao buscar evento", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toEventResponse(event)
	open := 0
	resp.Assignments = make([]dto.AssignmentResponse, 0, len(event.Assignments))
	for i := range event.Assignments {
		a := &event.Assignments[i]
		if a.IsOpen() {
			open++
		}
		resp.Assignments = append(resp.Assignments, *toAssignmentResponse(a))
	}
	resp.OpenSlots = &open
	return resp, nil
}

// ────────────────────── List ──────────────────────

func (s *eventService) List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, 0, err
	}
	if req.Upcoming && from == nil {
		now := s.now()
		from = &now
	}

	events, total, err := s.repo.Event.List(ctx, repository.EventFilter{From: from, To: to}, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("falha ao listar eventos", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *toEventResponse(&events[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *eventService) Update(ctx context.Context, sess *Session, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("falha ao buscar evento", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	changes := model.Changes{}
	if req.Name != nil {
		changes.Track("name", event.Name, *req.Name)
		event.Name = *req.Name
	}
	if req.Description != nil {
		changes.Track("description", event.Description, *req.Description)
		event.Description = *req.Description
	}
	if req.EventDate != nil {
		if !event.EventDate.Equal(*req.EventDate) {
			changes["event_date"] = model.FieldChange{
				From: event.EventDate.Format(time.RFC3339),
				To:   req.EventDate.Format(time.RFC3339),
			}
		}
		event.EventDate = *req.EventDate
	}
	if req.Location != nil {
		changes.Track("location", event.Location, *req.Location)
		event.Location = *req.Location
	}

	// nothing to write, nothing to audit
	if len(changes) == 0 {
		return toEventResponse(event), nil
	}

	event.UpdatedBy = sess.actorID()
	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("falha ao atualizar evento", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionEventUpdated,
		ResourceType: model.ResourceEvent,
		ResourceID:   event.ID,
		Details:      model.EventDetails{EventName: event.Name, Changes: changes},
	})

	return toEventResponse(event), nil
}

// ────────────────────── Delete ──────────────────────

func (s *eventService) Delete(ctx context.Context, sess *Session, id string) error {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("falha ao buscar evento", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Event.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("falha ao remover evento", zap.String("id", id), zap.Error(err))
		return err
	}

	date := event.EventDate
	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionEventDeleted,
		ResourceType: model.ResourceEvent,
		ResourceID:   event.ID,
		Details:      model.EventDetails{EventName: event.Name, Date: &date},
	})
	return nil
}

func toEventResponse(e *model.Event) *dto.EventResponse {
	return &dto.EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		EventDate:   dto.FormatTime(e.EventDate),
		Location:    e.Location,
		CreatedAt:   dto.FormatTime(e.CreatedAt),
		UpdatedAt:   dto.FormatTime(e.UpdatedAt),
	}
}
