package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/authz"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/repository"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("e-mail ou senha inválidos")
	ErrMemberNotApproved  = errors.New("cadastro ainda não aprovado")
)

// AuthService issues access tokens and describes the current session
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, s *Session) (*dto.MeResponse, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService creates an AuthService
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. member by email
	member, err := s.repo.Member.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("falha ao buscar membro", zap.Error(err))
		return nil, err
	}

	// 2. password (bcrypt); members without a password cannot log in
	if member.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. only approved members hold a session
	if member.Status != model.MemberStatusApproved {
		return nil, ErrMemberNotApproved
	}

	// 4. token
	token, err := s.jwtMgr.GenerateAccessToken(member.ID, member.Role)
	if err != nil {
		s.logger.Error("falha ao gerar token", zap.String("member_id", member.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("login realizado", zap.String("member_id", member.ID), zap.String("role", member.Role))

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Member:      *toMemberResponse(member),
	}, nil
}

func (s *authService) Me(ctx context.Context, sess *Session) (*dto.MeResponse, error) {
	if sess == nil {
		return nil, ErrForbidden
	}

	member, err := s.repo.Member.GetByID(ctx, sess.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("falha ao buscar membro", zap.String("member_id", sess.MemberID), zap.Error(err))
		return nil, err
	}

	// the stored role wins over the one in the token
	caps := authz.Capabilities(member.Role)
	names := make([]string, 0, len(caps))
	for _, c := range caps {
		names = append(names, string(c))
	}
	sort.Strings(names)

	return &dto.MeResponse{
		Member:       *toMemberResponse(member),
		Capabilities: names,
	}, nil
}
