package service

import (
	"errors"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/authz"
)

var (
	ErrForbidden        = errors.New("sem permissão para esta operação")
	ErrInvalidTimeRange = errors.New("intervalo de datas inválido")
)

// Session caller identity, built by the HTTP layer from the access token.
// A nil *Session is an anonymous caller.
type Session struct {
	MemberID string
	Role     string
}

// Can reports whether the session holds capability c
func (s *Session) Can(c authz.Capability) bool {
	return s != nil && authz.Can(s.Role, c)
}

// actorID member id as a nullable column value
func (s *Session) actorID() *string {
	if s == nil || s.MemberID == "" {
		return nil
	}
	id := s.MemberID
	return &id
}
