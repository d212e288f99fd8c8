package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/repository"
	pkgerrors "github.com/cleytonmendest/viva-esperanca-sub000/pkg/errors"
)

// ── member errors ──

var (
	ErrMemberNotFound        = errors.New("membro não encontrado")
	ErrEmailTaken            = errors.New("e-mail já cadastrado")
	ErrMemberVersionConflict = errors.New("membro alterado por outra operação")
	ErrMemberAlreadyApproved = errors.New("membro já aprovado")
	ErrCannotDeleteSelf      = errors.New("não é possível remover o próprio cadastro")
)

// MemberService member directory management. Audit details always name the
// affected member; the actor comes from the session.
type MemberService interface {
	Create(ctx context.Context, s *Session, req *dto.CreateMemberRequest) (*dto.MemberResponse, error)
	Get(ctx context.Context, id string) (*dto.MemberResponse, error)
	List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, int64, error)
	Update(ctx context.Context, s *Session, id string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error)
	Delete(ctx context.Context, s *Session, id string) error
	Approve(ctx context.Context, s *Session, id string) (*dto.MemberResponse, error)
}

type memberService struct {
	repo   *repository.Repository
	audit  AuditRecorder
	logger *zap.Logger
}

// NewMemberService creates a MemberService
func NewMemberService(repo *repository.Repository, audit AuditRecorder, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, audit: audit, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *memberService) Create(ctx context.Context, sess *Session, req *dto.CreateMemberRequest) (*dto.MemberResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	member := &model.Member{
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
		Phone:    req.Phone,
		Role:     req.Role,
		Status:   req.Status,
	}
	if member.Role == "" {
		member.Role = model.RoleMember
	}
	if member.Status == "" {
		member.Status = model.MemberStatusPending
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("falha ao gerar hash de senha", zap.Error(err))
			return nil, err
		}
		member.PasswordHash = string(hash)
	}
	member.CreatedBy = sess.actorID()
	member.UpdatedBy = sess.actorID()

	if err := s.repo.Member.Create(ctx, member); err != nil {
		s.logger.Error("falha ao criar membro", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionMemberCreated,
		ResourceType: model.ResourceMember,
		ResourceID:   member.ID,
		Details:      model.MemberDetails{MemberName: member.FullName},
	})

	return toMemberResponse(member), nil
}

// ────────────────────── Get / List ──────────────────────

func (s *memberService) Get(ctx context.Context, id string) (*dto.MemberResponse, error) {
	member, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMemberResponse(member), nil
}

func (s *memberService) List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, int64, error) {
	filter := repository.MemberFilter{
		Status:  req.Status,
		Role:    req.Role,
		Keyword: strings.TrimSpace(req.Keyword),
	}
	members, total, err := s.repo.Member.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("falha ao listar membros", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		result = append(result, *toMemberResponse(&members[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *memberService) Update(ctx context.Context, sess *Session, id string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	member, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if member.Version != req.Version {
		return nil, ErrMemberVersionConflict
	}

	changes := model.Changes{}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		changes.Track("full_name", member.FullName, name)
		member.FullName = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != member.Email {
			if err := s.ensureEmailFree(ctx, email, member.ID); err != nil {
				return nil, err
			}
		}
		changes.Track("email", member.Email, email)
		member.Email = email
	}
	if req.Phone != nil {
		changes.Track("phone", member.Phone, *req.Phone)
		member.Phone = *req.Phone
	}
	if req.Role != nil {
		changes.Track("role", member.Role, *req.Role)
		member.Role = *req.Role
	}
	if req.Status != nil {
		changes.Track("status", member.Status, *req.Status)
		member.Status = *req.Status
	}

	if len(changes) == 0 {
		return toMemberResponse(member), nil
	}

	if err := s.save(ctx, sess, member); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionMemberUpdated,
		ResourceType: model.ResourceMember,
		ResourceID:   member.ID,
		Details:      model.MemberDetails{MemberName: member.FullName, Changes: changes},
	})

	return toMemberResponse(member), nil
}

// ────────────────────── Delete ──────────────────────

func (s *memberService) Delete(ctx context.Context, sess *Session, id string) error {
	if sess != nil && sess.MemberID == id {
		return ErrCannotDeleteSelf
	}

	member, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Member.Delete(ctx, id, sess.actorID()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		s.logger.Error("falha ao remover membro", zap.String("id", id), zap.Error(err))
		return err
	}

	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionMemberDeleted,
		ResourceType: model.ResourceMember,
		ResourceID:   member.ID,
		Details:      model.MemberDetails{MemberName: member.FullName},
	})
	return nil
}

// ────────────────────── Approve ──────────────────────

func (s *memberService) Approve(ctx context.Context, sess *Session, id string) (*dto.MemberResponse, error) {
	member, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if member.Status == model.MemberStatusApproved {
		return nil, ErrMemberAlreadyApproved
	}

	changes := model.Changes{}
	changes.Track("status", member.Status, model.MemberStatusApproved)
	member.Status = model.MemberStatusApproved

	if err := s.save(ctx, sess, member); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, sess, AuditEntry{
		Action:       model.ActionMemberApproved,
		ResourceType: model.ResourceMember,
		ResourceID:   member.ID,
		Details:      model.MemberDetails{MemberName: member.FullName, Changes: changes},
	})

	return toMemberResponse(member), nil
}

// ── helpers ──

func (s *memberService) get(ctx context.Context, id string) (*model.Member, error) {
	member, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("falha ao buscar membro", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return member, nil
}

func (s *memberService) save(ctx context.Context, sess *Session, member *model.Member) error {
	member.UpdatedBy = sess.actorID()
	if err := s.repo.Member.Update(ctx, member); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return ErrMemberVersionConflict
		}
		s.logger.Error("falha ao atualizar membro", zap.String("id", member.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *memberService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.Member.GetByEmail(ctx, email)
	if err == nil && existing.ID != selfID {
		return ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("falha ao verificar e-mail", zap.Error(err))
		return err
	}
	return nil
}

func toMemberResponse(m *model.Member) *dto.MemberResponse {
	return &dto.MemberResponse{
		ID:        m.ID,
		FullName:  m.FullName,
		Email:     m.Email,
		Phone:     m.Phone,
		Role:      m.Role,
		Status:    m.Status,
		Version:   m.Version,
		CreatedAt: dto.FormatTime(m.CreatedAt),
		UpdatedAt: dto.FormatTime(m.UpdatedAt),
	}
}
