package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/aulaplay/aulaplay-go/internal/dependencies/clock"
	"github.com/aulaplay/aulaplay-go/internal/dependencies/random"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameExists     = errors.New("username already exists")
)

// Session is an authenticated principal plus its signed access token
type Session struct {
	Token     string
	User      model.User
	Principal model.Principal
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	// JWTSecret signs access tokens (HS256)
	JWTSecret string
	// TokenDuration is the access token lifetime
	TokenDuration time.Duration
	// SuperadminUsername marks the distinguished global tenant account
	SuperadminUsername string
	// BcryptCost for password hashing; bcrypt.DefaultCost when zero
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenDuration: 24 * time.Hour,
		BcryptCost:    bcrypt.DefaultCost,
	}
}

// Service resolves credentials and tokens into principals
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	cfg     Config
	logger  *slog.Logger
}

// New creates a new auth service
func New(storage storage.Storage, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = DefaultConfig().TokenDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		cfg:     cfg,
		logger:  logger,
	}
}

// RegisterAdmin creates a self-owned admin account. The account named by
// SuperadminUsername becomes the superadmin and owns no tenant.
func (s *Service) RegisterAdmin(ctx context.Context, username, password, name string) (*Session, error) {
	if err := s.checkUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	id := model.UserID(s.random.UUID())
	now := s.clock.Now()

	user := &model.User{
		ID:           id,
		Name:         name,
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if username == s.cfg.SuperadminUsername && s.cfg.SuperadminUsername != "" {
		user.IsSuperAdmin = true
	} else {
		// Self-ownership: an admin is the tenant of everything it creates
		tenant := model.TenantID(id)
		user.OwnerAdmin = &tenant
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("admin registered",
		slog.String("user_id", string(id)),
		slog.Bool("superadmin", user.IsSuperAdmin),
	)
	return s.createSession(user)
}

// RegisterStudent creates a student owned by the given admin's roster
func (s *Service) RegisterStudent(ctx context.Context, username, password, name string, teacher model.TenantID) (*Session, error) {
	if err := s.checkUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	// The owning admin must exist and actually be an admin
	owner, err := s.storage.GetUser(ctx, model.UserID(teacher))
	if err != nil {
		return nil, err
	}
	if owner.Role != model.RoleAdmin {
		return nil, model.ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           model.UserID(s.random.UUID()),
		Name:         name,
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
		OwnerAdmin:   &teacher,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("student registered",
		slog.String("user_id", string(user.ID)),
		slog.String("owner_admin", string(teacher)),
	)
	return s.createSession(user)
}

// Login authenticates a user and issues a fresh token
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(user)
}

// ResolveToken validates a signed token and returns the principal it
// carries
func (s *Service) ResolveToken(ctx context.Context, tokenStr string) (*model.Principal, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, ErrInvalidToken
	}

	p := &model.Principal{
		UserID: model.UserID(sub),
		Role:   model.Role(role),
	}
	if owner, ok := claims["owner_admin"].(string); ok && owner != "" {
		tenant := model.TenantID(owner)
		p.OwnerAdmin = &tenant
	}
	if super, ok := claims["superadmin"].(bool); ok {
		p.IsSuperAdmin = super
	}
	return p, nil
}

func (s *Service) createSession(user *model.User) (*Session, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.cfg.TokenDuration)

	claims := jwt.MapClaims{
		"sub":  string(user.ID),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	if user.OwnerAdmin != nil {
		claims["owner_admin"] = string(*user.OwnerAdmin)
	}
	if user.IsSuperAdmin {
		claims["superadmin"] = true
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     signed,
		User:      *user,
		Principal: *user.Principal(),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) checkUsernameFree(ctx context.Context, username string) error {
	_, err := s.storage.GetUserByUsername(ctx, username)
	if err == nil {
		return ErrUsernameExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return err
	}
	return nil
}
