package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/sis/internal/pkg/auth"
)

// Identity is the authenticated caller
type Identity struct {
	AccountNo string
	Role      models.Role
	ExpiresAt time.Time
}

// Is reports whether the caller owns accountNo
func (id Identity) Is(accountNo string) bool {
	return id.AccountNo == accountNo
}

// TokenValidator is implemented by *pkgAuth.JWTService
type TokenValidator interface {
	ValidateAndExtractClaims(tokenString string) (*pkgAuth.Claims, error)
}

// Gate turns presented tokens into identities and checks role membership
type Gate struct {
	tokens TokenValidator
}

// NewGate creates a Gate
func NewGate(tokens TokenValidator) *Gate {
	return &Gate{tokens: tokens}
}

// Authenticate validates a raw token. Any failure is ErrUnauthenticated; an
// expired token also matches pkgAuth.ErrExpiredToken.
func (g *Gate) Authenticate(token string) (Identity, error) {
	claims, err := g.tokens.ValidateAndExtractClaims(token)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrExpiredToken) {
			return Identity{}, &apperrors.CustomError{
				Err:     errors.Join(apperrors.ErrUnauthenticated, pkgAuth.ErrExpiredToken),
				Message: "token expired",
			}
		}
		return Identity{}, apperrors.NewUnauthenticatedError("invalid token")
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return Identity{}, apperrors.NewUnauthenticatedError("invalid role claim")
	}

	id := Identity{AccountNo: claims.AccountNo, Role: role}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// RequireRole returns the identity unchanged when its role is allowed and
// a Forbidden error otherwise.
func RequireRole(id Identity, allowed ...models.Role) (Identity, error) {
	for _, r := range allowed {
		if id.Role == r {
			return id, nil
		}
	}
	return Identity{}, apperrors.NewForbiddenError(fmt.Sprintf("role %q may not perform this operation", id.Role))
}

// CanGrade reports whether id may set grades on offerings taught by tno.
func CanGrade(id Identity, tno string) bool {
	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return id.Is(tno)
	case models.RoleStudent:
		return false
	default:
		return false
	}
}

// CanUnenroll reports whether id may remove sno's enrollment.
func CanUnenroll(id Identity, sno string) bool {
	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RoleStudent:
		return id.Is(sno)
	case models.RoleTeacher:
		return false
	default:
		return false
	}
}
