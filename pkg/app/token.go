package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/notefield/notebook-service/pkg/util"
)

const DefaultTokenIssuer = "notebook-service"

const (
	subjectUserToken  = "user-token"
	subjectShareToken = "share-token"
)

// TokenConfig configures the token manager.
type TokenConfig struct {
	SecretKey string        `yaml:"secret-key"` // JWT signing key
	Expiry    time.Duration `yaml:"expiry"`     // token lifetime, defaults to 7 days
	Issuer    string        `yaml:"issuer"`
}

// TokenManager issues and parses user and share tokens.
type TokenManager interface {
	Generate(uid int64, username, ip string) (string, error)
	Parse(token string) (*UserEntity, error)
	Validate(token string) error
	GenerateShare(shareID, notebookID int64, expiry time.Duration) (string, error)
	ParseShare(token string) (*ShareEntity, error)
	GetSecretKey() string
}

type tokenManager struct {
	config TokenConfig
}

func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// UserSelectEntity is the user projection stored for realtime sessions.
type UserSelectEntity struct {
	UID      int64  `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UserEntity is the user token claim set.
type UserEntity struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
	IP       string `json:"ip"`
	jwt.RegisteredClaims
}

// ShareEntity is the share link token claim set.
type ShareEntity struct {
	ShareID    int64 `json:"shareId"`
	NotebookID int64 `json:"notebookId"`
	jwt.RegisteredClaims
}

// The signing key is bound to the host machine so a leaked config secret is
// not enough to mint tokens elsewhere.
func (t *tokenManager) signingKey() []byte {
	return []byte(t.config.SecretKey + "_" + util.GetMachineID())
}

// Generate issues a new user JWT.
func (t *tokenManager) Generate(uid int64, username, ip string) (string, error) {
	now := time.Now()
	claims := &UserEntity{
		UID:      uid,
		Username: username,
		IP:       ip,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   subjectUserToken,
			ID:        fmt.Sprintf("%d", uid),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.signingKey())
}

// Parse parses a user JWT and returns the claims.
func (t *tokenManager) Parse(token string) (*UserEntity, error) {
	claims := &UserEntity{}

	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.signingKey(), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsedToken.Valid || claims.Subject != subjectUserToken {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// Validate checks whether a user token is valid.
func (t *tokenManager) Validate(token string) error {
	_, err := t.Parse(token)
	return err
}

// GenerateShare issues a share link JWT. A zero expiry means the link does
// not expire.
func (t *tokenManager) GenerateShare(shareID, notebookID int64, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &ShareEntity{
		ShareID:    shareID,
		NotebookID: notebookID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   subjectShareToken,
			ID:        fmt.Sprintf("%d", shareID),
		},
	}
	if expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.signingKey())
}

// ParseShare parses a share link JWT and returns the claims.
func (t *tokenManager) ParseShare(token string) (*ShareEntity, error) {
	claims := &ShareEntity{}

	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.signingKey(), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsedToken.Valid || claims.Subject != subjectShareToken {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

func (t *tokenManager) GetSecretKey() string {
	return t.config.SecretKey
}

// GetUID extracts the user ID from the request context.
func GetUID(ctx *gin.Context) (out int64) {
	user, exist := ctx.Get("user_token")
	if exist {
		if userEntity, ok := user.(*UserEntity); ok {
			out = userEntity.UID
		}
	}
	return
}

// GetIP extracts the user IP from the request context.
func GetIP(ctx *gin.Context) (out string) {
	user, exist := ctx.Get("user_token")
	if exist {
		if userEntity, ok := user.(*UserEntity); ok {
			out = userEntity.IP
		}
	}
	return
}

// GetShare extracts the share claims from the request context.
func GetShare(ctx *gin.Context) *ShareEntity {
	share, exist := ctx.Get("share_token")
	if exist {
		if shareEntity, ok := share.(*ShareEntity); ok {
			return shareEntity
		}
	}
	return nil
}
