package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// represents JWT claims issued to a company
type Claims struct {
	CompanyID int64 `json:"company_id"`
	jwt.RegisteredClaims
}
