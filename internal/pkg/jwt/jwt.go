package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	ClaimOperatorID = "operator_id"
	ClaimIsAdmin    = "is_admin"
	ClaimType       = "type"

	TokenTypeAccess = "access"
)

// Claims identifies the operator behind a bearer token.
type Claims struct {
	OperatorID string
	IsAdmin    bool
	ExpiresAt  time.Time
}

type Service interface {
	GenerateAccessToken(operatorID string, isAdmin bool) (token string, expiresAt int64, err error)
	ParseAccessToken(token string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(operatorID string, isAdmin bool) (token string, expiresAt int64, err error) {
	if operatorID == "" {
		return "", 0, fmt.Errorf("operator id is required")
	}

	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, fmt.Errorf("invalid access token expiration %q: %w", j.accessTokenExpirationTime, err)
	}
	expiresAt = j.now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		ClaimOperatorID: operatorID,
		ClaimIsAdmin:    isAdmin,
		ClaimType:       TokenTypeAccess,
		"exp":           expiresAt,
	})
	return tokenString, expiresAt, err
}

// ParseAccessToken verifies the signature and expiry of an access token.
func (j *JWTService) ParseAccessToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, err
	}

	tokenType, ok := token.Get(ClaimType)
	if !ok || tokenType != TokenTypeAccess {
		return Claims{}, jwt.ErrInvalidJWT()
	}

	operatorVal, ok := token.Get(ClaimOperatorID)
	if !ok {
		return Claims{}, jwt.ErrInvalidJWT()
	}
	operatorID, ok := operatorVal.(string)
	if !ok || operatorID == "" {
		return Claims{}, jwt.ErrInvalidJWT()
	}

	claims := Claims{OperatorID: operatorID, ExpiresAt: token.Expiration()}
	if admin, ok := token.Get(ClaimIsAdmin); ok {
		claims.IsAdmin, _ = admin.(bool)
	}
	return claims, nil
}
