package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"linea1-bknd/internal/auth"
	"linea1-bknd/internal/config"
	"linea1-bknd/internal/models"

	"github.com/go-ldap/ldap/v3"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers every authentication failure presented to the
// client. Dial errors and bind failures log the real cause server-side.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	db   *bun.DB
	jwt  *auth.JWTManager
	cfg  *config.Config
	logr *zap.Logger
}

func NewAuthService(db *bun.DB, jwt *auth.JWTManager, cfg *config.Config, logr *zap.Logger) *AuthService {
	return &AuthService{db: db, jwt: jwt, cfg: cfg, logr: logr}
}

// HashPassword uses bcrypt.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// TokenResponse is the login payload: a bearer token plus the authenticated user.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

// LoginLocal authenticates a locally provisioned account.
func (s *AuthService) LoginLocal(ctx context.Context, username, password string) (*TokenResponse, error) {
	var u models.User
	err := s.db.NewSelect().Model(&u).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := ComparePassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if u.Status != models.UserActive {
		return nil, fmt.Errorf("account is %s", u.Status)
	}

	return s.issueToken(ctx, &u, "local")
}

// LoginLDAP authenticates against the corporate directory, provisioning a
// local opersac record on first login.
func (s *AuthService) LoginLDAP(ctx context.Context, username, password string) (*TokenResponse, error) {
	if s.cfg.LDAPServer == "" {
		return nil, fmt.Errorf("ldap login is not configured")
	}

	ldap.DefaultTimeout = 10 * time.Second
	l, err := ldap.DialURL(s.cfg.LDAPServer)
	if err != nil {
		s.logr.Error("LDAP dial failed", zap.Error(err), zap.String("server", s.cfg.LDAPServer))
		return nil, fmt.Errorf("ldap connection failed")
	}
	defer l.Close()
	l.SetTimeout(30 * time.Second)

	// Service bind first so we can resolve the user's DN.
	if s.cfg.LDAPBindDN != "" {
		if err := l.Bind(s.cfg.LDAPBindDN, s.cfg.LDAPBindPass); err != nil {
			s.logr.Error("LDAP service bind failed", zap.Error(err))
			return nil, fmt.Errorf("ldap connection failed")
		}
	}

	searchReq := ldap.NewSearchRequest(
		s.cfg.LDAPBaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		1,
		0,
		false,
		fmt.Sprintf("(uid=%s)", ldap.EscapeFilter(username)),
		[]string{"cn", "displayName"},
		nil,
	)
	sr, err := l.Search(searchReq)
	if err != nil {
		s.logr.Error("LDAP search failed", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("user lookup failed")
	}
	if len(sr.Entries) == 0 {
		s.logr.Warn("LDAP: no entry found", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	entry := sr.Entries[0]
	if err := l.Bind(entry.DN, password); err != nil {
		s.logr.Warn("LDAP bind failed", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	fullName := entry.GetAttributeValue("displayName")
	if fullName == "" {
		fullName = entry.GetAttributeValue("cn")
	}
	if fullName == "" {
		fullName = username
	}

	var u models.User
	err = s.db.NewSelect().Model(&u).Where("username = ?", username).Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		u = models.User{
			Username: username,
			FullName: fullName,
			Role:     models.RoleOpersac,
			Status:   models.UserActive,
			Provider: "ldap",
		}
		if insErr := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewInsert().Model(&u).Exec(ctx); err != nil {
				return err
			}
			perms := make([]models.Permission, 0, len(models.PermissionFeatures))
			for _, feature := range models.PermissionFeatures {
				perms = append(perms, models.Permission{UserID: u.ID, FeatureKey: feature, IsAllowed: true})
			}
			_, err := tx.NewInsert().Model(&perms).Exec(ctx)
			return err
		}); insErr != nil {
			s.logr.Error("failed to provision LDAP user", zap.Error(insErr), zap.String("username", username))
			return nil, fmt.Errorf("failed to create user account")
		}
		s.logr.Info("provisioned new LDAP user", zap.String("username", username), zap.Int64("user_id", u.ID))
	case err != nil:
		return nil, err
	default:
		if u.Status != models.UserActive {
			return nil, fmt.Errorf("account is %s", u.Status)
		}
		if u.Provider != "ldap" {
			_, _ = s.db.NewUpdate().Model(&u).
				Set("provider = ?", "ldap").
				Where("id = ?", u.ID).
				Exec(ctx)
		}
	}

	return s.issueToken(ctx, &u, "ldap")
}

// GetUserByID loads a user for the auth middleware.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u := new(models.User)
	err := s.db.NewSelect().
		Model(u).
		Relation("Permissions").
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) issueToken(ctx context.Context, u *models.User, method string) (*TokenResponse, error) {
	now := time.Now().UTC()
	_, _ = s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("last_login_at = ?", now).
		Where("id = ?", u.ID).
		Exec(ctx)
	u.LastLoginAt = &now

	token, expiresAt, err := s.jwt.GenerateToken(u.ID, u.Role, method, s.cfg.AccessTokenTTL)
	if err != nil {
		s.logr.Error("token generation failed", zap.Error(err), zap.Int64("user_id", u.ID))
		return nil, fmt.Errorf("failed to generate token")
	}

	s.logr.Info("login successful",
		zap.Int64("user_id", u.ID),
		zap.String("username", u.Username),
		zap.String("method", method))

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        u,
	}, nil
}
