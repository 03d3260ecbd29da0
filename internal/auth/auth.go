package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/leave-management/internal"
)

// Permission names route-level capabilities. Roles map to permission
// sets at seed time; the middleware only ever checks permissions.
const (
	PermManageUsers      = "manage_users"
	PermManageLeaveTypes = "manage_leave_types"
	PermApplyLeave       = "apply_leave"
	PermDecideLeave      = "decide_leave"
	PermOverrideDecision = "override_decision"
	PermViewTeamLeaves   = "view_team_leaves"
	PermViewAllLeaves    = "view_all_leaves"
	PermViewActivityLog  = "view_activity_log"
)

// PermissionsForRole returns the permission set a role is granted at
// provisioning time.
func PermissionsForRole(role string) []string {
	switch role {
	case internal.RoleHR:
		return []string{
			PermManageUsers, PermManageLeaveTypes, PermApplyLeave,
			PermDecideLeave, PermOverrideDecision, PermViewTeamLeaves,
			PermViewAllLeaves, PermViewActivityLog,
		}
	case internal.RoleManager:
		return []string{PermApplyLeave, PermDecideLeave, PermViewTeamLeaves}
	default:
		return []string{PermApplyLeave}
	}
}

// User is the authenticated identity placed into the request context.
type User struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	ManagerID   *int64   `json:"manager_id,omitempty"`
	Permissions []string `json:"permissions"`
}

func (u *User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenGenerator issues and validates the signed token pair.
type TokenGenerator interface {
	GenerateTokenPair(userID int64, email string) (*TokenPair, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

func NewJWTTokenGenerator(cfg *internal.SecurityConfig) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		accessSecret:    []byte(cfg.AccessTokenSecret),
		refreshSecret:   []byte(cfg.RefreshTokenSecret),
		accessDuration:  cfg.AccessTokenDuration,
		refreshDuration: cfg.RefreshTokenDuration,
	}
}

func (g *JWTTokenGenerator) GenerateTokenPair(userID int64, email string) (*TokenPair, error) {
	now := time.Now()

	accessClaims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.accessDuration)),
			Subject:   email,
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(g.accessSecret)
	if err != nil {
		return nil, err
	}

	refreshClaims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.refreshDuration)),
			Subject:   email,
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(g.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(g.accessDuration.Seconds()),
	}, nil
}

func (g *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return g.parse(tokenString, g.accessSecret)
}

func (g *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return g.parse(tokenString, g.refreshSecret)
}

func (g *JWTTokenGenerator) parse(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal.ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}
	if !token.Valid {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}
