package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/repository"
)

var (
	ErrTaskNotFound = errors.New("tarefa não encontrada")
)

// TaskService volunteer task catalog
type TaskService interface {
	Create(ctx context.Context, s *Session, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Get(ctx context.Context, id string) (*dto.TaskResponse, error)
	List(ctx context.Context, req *dto.TaskListRequest) ([]dto.TaskResponse, error)
	Update(ctx context.Context, s *Session, id string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, s *Session, id string) error
}

type taskService struct {
	repo   *repository.Repository
	audit  AuditRecorder
	logger *zap.Logger
}

// NewTaskService creates a TaskService
func NewTaskService(repo *repository.Repository, audit AuditRecorder, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, audit: audit, logger: logger}
}

func (s *taskService) Create(ctx context.Context, sess *Session, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	task := &model.Task{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		IsActive:    true,
	}
	if task.Quantity <= 0 {
		task.Quantity = 1
	}
	task.CreatedBy = sess.actorID()
	task.UpdatedBy = sess.actorID()

	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("falha ao criar tarefa", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionTaskCreated,
		ResourceType: model.ResourceTask,
		ResourceID:   task.ID,
		Details:      model.TaskCatalogDetails{TaskName: task.Name},
	})

	return toTaskResponse(task), nil
}

func (s *taskService) Get(ctx context.Context, id string) (*dto.TaskResponse, error) {
	task, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *taskService) List(ctx context.Context, req *dto.TaskListRequest) ([]dto.TaskResponse, error) {
	tasks, err := s.repo.Task.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("falha ao listar tarefas", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, *toTaskResponse(&tasks[i]))
	}
	return result, nil
}

func (s *taskService) Update(ctx context.Context, sess *Session, id string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := model.Changes{}
	if req.Name != nil {
		changes.Track("name", task.Name, *req.Name)
		task.Name = *req.Name
	}
	if req.Description != nil {
		changes.Track("description", task.Description, *req.Description)
		task.Description = *req.Description
	}
	if req.Quantity != nil {
		changes.Track("quantity", task.Quantity, *req.Quantity)
		task.Quantity = *req.Quantity
	}
	if req.IsActive != nil {
		changes.Track("is_active", task.IsActive, *req.IsActive)
		task.IsActive = *req.IsActive
	}

	if len(changes) == 0 {
		return toTaskResponse(task), nil
	}

	task.UpdatedBy = sess.actorID()
	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Error("falha ao atualizar tarefa", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionTaskUpdated,
		ResourceType: model.ResourceTask,
		ResourceID:   task.ID,
		Details:      model.TaskCatalogDetails{TaskName: task.Name, Changes: changes},
	})

	return toTaskResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, sess *Session, id string) error {
	task, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Task.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		s.logger.Error("falha ao remover tarefa", zap.String("id", id), zap.Error(err))
		return err
	}

	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionTaskDeleted,
		ResourceType: model.ResourceTask,
		ResourceID:   task.ID,
		Details:      model.TaskCatalogDetails{TaskName: task.Name},
	})
	return nil
}

func (s *taskService) get(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("falha ao buscar tarefa", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return task, nil
}

func toTaskResponse(t *model.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Quantity:    t.Quantity,
		IsActive:    t.IsActive,
		CreatedAt:   dto.FormatTime(t.CreatedAt),
		UpdatedAt:   dto.FormatTime(t.UpdatedAt),
	}
}
