package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"linea1-bknd/internal/energy"
	"linea1-bknd/internal/models"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles admin-side user management and per-user feature grants.
type UserService struct {
	db    *bun.DB
	audit *AuditService
	logr  *zap.Logger
}

func NewUserService(db *bun.DB, audit *AuditService, logr *zap.Logger) *UserService {
	return &UserService{db: db, audit: audit, logr: logr}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.NewSelect().
		Model(&users).
		Relation("Permissions").
		Order("username ASC").
		Scan(ctx)
	return users, err
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)
	err := s.db.NewSelect().
		Model(user).
		Relation("Permissions").
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, req models.UserCreateRequest, actor *models.User) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return nil, &energy.ValidationError{Field: "username", Message: "username is required"}
	}
	if len(req.Password) < 6 {
		return nil, &energy.ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleOpersac {
		return nil, &energy.ValidationError{Field: "role", Message: "role must be admin or opersac"}
	}

	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("username = ?", req.Username).
		Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		Status:       models.UserActive,
		Provider:     "local",
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return err
		}
		// Opersac accounts start with every feature granted. Admins bypass
		// permission checks entirely, so no rows are needed for them.
		if user.Role == models.RoleOpersac {
			perms := make([]models.Permission, 0, len(models.PermissionFeatures))
			for _, feature := range models.PermissionFeatures {
				perms = append(perms, models.Permission{
					UserID:     user.ID,
					FeatureKey: feature,
					IsAllowed:  true,
				})
			}
			if _, err := tx.NewInsert().Model(&perms).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, actor, "CREATE_USER", "user", &user.ID, map[string]any{
		"username": user.Username,
		"role":     user.Role,
	})
	return s.Get(ctx, user.ID)
}

func (s *UserService) Update(ctx context.Context, id int64, req models.UserUpdateRequest, actor *models.User) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := map[string]any{}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
		changed["full_name"] = user.FullName
	}
	if req.Status != nil {
		if *req.Status != models.UserActive && *req.Status != models.UserInactive && *req.Status != models.UserReported {
			return nil, &energy.ValidationError{Field: "status", Message: "unknown user status"}
		}
		user.Status = *req.Status
		changed["status"] = user.Status
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return nil, &energy.ValidationError{Field: "password", Message: "password must be at least 6 characters"}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		changed["password"] = "updated"
	}
	if len(changed) == 0 {
		return user, nil
	}

	if _, err := s.db.NewUpdate().Model(user).WherePK().Exec(ctx); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, actor, "UPDATE_USER", "user", &user.ID, changed)
	return user, nil
}

// Features lists the feature keys an admin can toggle per user.
func (s *UserService) Features() []string {
	return models.PermissionFeatures
}

// GetPermissions loads the allowed feature keys of a user. Admins are treated
// as all-allowed by the middleware, so this is only meaningful for opersac.
func (s *UserService) GetPermissions(ctx context.Context, userID int64) (models.PermissionSet, error) {
	var perms []*models.Permission
	err := s.db.NewSelect().
		Model(&perms).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewPermissionSet(perms), nil
}

// BulkUpdatePermissions upserts the given feature toggles for a user.
func (s *UserService) BulkUpdatePermissions(ctx context.Context, userID int64, update models.PermissionsBulkUpdate, actor *models.User) ([]*models.Permission, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	for _, p := range update.Permissions {
		if !knownFeature(p.FeatureKey) {
			return nil, &energy.ValidationError{Field: "feature_key", Message: "unknown feature: " + p.FeatureKey}
		}
	}

	now := time.Now().UTC()
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, p := range update.Permissions {
			perm := &models.Permission{
				UserID:     userID,
				FeatureKey: p.FeatureKey,
				IsAllowed:  p.IsAllowed,
				UpdatedAt:  now,
			}
			_, err := tx.NewInsert().
				Model(perm).
				On("CONFLICT (user_id, feature_key) DO UPDATE").
				Set("is_allowed = EXCLUDED.is_allowed").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, actor, "UPDATE_PERMISSIONS", "user", &userID, map[string]any{
		"updated": len(update.Permissions),
	})

	var perms []*models.Permission
	err = s.db.NewSelect().
		Model(&perms).
		Where("user_id = ?", userID).
		Order("feature_key ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return perms, nil
}

func knownFeature(key string) bool {
	for _, f := range models.PermissionFeatures {
		if f == key {
			return true
		}
	}
	return false
}
