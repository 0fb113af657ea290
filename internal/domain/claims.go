package domain

import "github.com/golang-jwt/jwt/v5"

// Claims são as claims do token JWT emitido para o painel interno de operações
type Claims struct {
	RoleID int `json:"role_id"`
	jwt.RegisteredClaims
}
