package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Role claim values
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

var ErrInvalidClaims = errors.New("token claims are missing or invalid")

// Claims are the values the API reads from an access token.
type Claims struct {
	UserID string
	ClubID string
	Role   Role
}

type Service interface {
	GenerateAccessToken(userID string, clubID string, role Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken signs an access token. Login flows live in the
// identity service; this is used by operational tooling and tests.
func (j *JWTService) GenerateAccessToken(userID string, clubID string, role Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"club_id": clubID,
		"role":    string(role),
		"type":    "access",
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// ClaimsFromContext reads the verified token claims placed by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}

	userID, _ := claims["user_id"].(string)
	clubID, _ := claims["club_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return Claims{}, ErrInvalidClaims
	}

	return Claims{UserID: userID, ClubID: clubID, Role: Role(role)}, nil
}
