package auth

import (
	"errors"
	"net/http"

	"github.com/notedeck/notedeck-be/internal/models"
)

var (
	// ErrTokenRequired means the route needs a valid token and none was given.
	ErrTokenRequired = errors.New("authentication required")
	// ErrWrongUser means the token's user does not own the requested tree.
	ErrWrongUser = errors.New("token does not match requested user")
)

// ResolveNamespace applies the access rule shared by every document route:
// mode=public (or the reserved "public" user-id segment) selects the shared
// tree and needs no token; anything else requires a valid token whose user id
// equals the user-id path segment.
func (s *Service) ResolveNamespace(r *http.Request, pathUserID string) (models.Namespace, error) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "private"
	}

	if mode == "public" || pathUserID == models.PublicID {
		return models.PublicNamespace, nil
	}

	claims := s.ClaimsFromRequest(r)
	if claims == nil {
		return models.Namespace{}, ErrTokenRequired
	}
	if claims.UserID != pathUserID {
		return models.Namespace{}, ErrWrongUser
	}
	return models.ForUser(pathUserID), nil
}
