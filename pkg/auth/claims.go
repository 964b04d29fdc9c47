package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Kushal-prime/kushalwearback/pkg/enums"
)

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	UserID uuid.UUID      `json:"uid"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
