package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload carries the fields minted into an admin JWT.
type AccessTokenPayload struct {
	AdminID     uuid.UUID
	Email       string
	DisplayName string
	JTI         string
}

// AccessTokenClaims is the typed claim set for admin access tokens.
type AccessTokenClaims struct {
	AdminID     uuid.UUID `json:"admin_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	jwt.RegisteredClaims
}
