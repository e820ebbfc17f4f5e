package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userrepo "github.com/brightboard/brightboard-backend/internal/data/repos/user"
	types "github.com/brightboard/brightboard-backend/internal/domain"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

// IdentityClaims is the subset of verified token claims the service consumes.
type IdentityClaims struct {
	Subject   uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Role      string
}

type UserService interface {
	// EnsureUser upserts the profile row for a verified identity. First
	// sight of a subject creates the row and a generated avatar; later
	// calls refresh display fields. Role is set on creation and never
	// changed from claims afterward.
	EnsureUser(ctx context.Context, claims IdentityClaims) (*types.User, error)
	Get(ctx context.Context, id uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName *string) (*types.User, error)
	UploadAvatar(ctx context.Context, id uuid.UUID, raw []byte) (*types.User, error)
}

type userService struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo      userrepo.UserRepo
	avatarService AvatarService
}

func NewUserService(gdb *gorm.DB, log *logger.Logger, userRepo userrepo.UserRepo, avatarService AvatarService) UserService {
	return &userService{
		db:            gdb,
		log:           log.With("service", "UserService"),
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

func (s *userService) EnsureUser(ctx context.Context, claims IdentityClaims) (*types.User, error) {
	if claims.Subject == uuid.Nil {
		return nil, errs.NewValidation("subject", "required")
	}
	if strings.TrimSpace(claims.Email) == "" {
		return nil, errs.NewValidation("email", "required")
	}

	existing, err := s.userRepo.GetByID(ctx, nil, claims.Subject)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		updates := map[string]interface{}{}
		if claims.Email != existing.Email {
			updates["email"] = claims.Email
		}
		if claims.FirstName != "" && claims.FirstName != existing.FirstName {
			updates["first_name"] = claims.FirstName
		}
		if claims.LastName != "" && claims.LastName != existing.LastName {
			updates["last_name"] = claims.LastName
		}
		if len(updates) > 0 {
			if err := s.userRepo.UpdateFields(ctx, nil, existing.ID, updates); err != nil {
				return nil, err
			}
			return s.userRepo.GetByID(ctx, nil, existing.ID)
		}
		return existing, nil
	}

	role := claims.Role
	if role != types.RoleInstructor && role != types.RoleStudent {
		role = types.RoleStudent
	}
	row := &types.User{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      role,
	}

	if s.avatarService != nil {
		if err := s.avatarService.CreateAndUploadUserAvatar(ctx, row); err != nil {
			// Profile creation wins over avatar generation.
			s.log.Warn("initial avatar generation failed", "user_id", row.ID, "error", err)
		}
	}

	if _, err := s.userRepo.Create(ctx, nil, []*types.User{row}); err != nil {
		return nil, err
	}
	s.log.Info("user provisioned", "user_id", row.ID, "role", row.Role)
	return row, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*types.User, error) {
	row, err := s.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("user %s: %w", id, errs.ErrNotFound)
	}
	return row, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName *string) (*types.User, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if firstName != nil {
		updates["first_name"] = strings.TrimSpace(*firstName)
	}
	if lastName != nil {
		updates["last_name"] = strings.TrimSpace(*lastName)
	}
	if len(updates) == 0 {
		return row, nil
	}
	if err := s.userRepo.UpdateFields(ctx, nil, id, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *userService) UploadAvatar(ctx context.Context, id uuid.UUID, raw []byte) (*types.User, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.avatarService == nil {
		return nil, fmt.Errorf("avatar service unavailable: %w", errs.ErrStorage)
	}
	if err := s.avatarService.CreateAndUploadUserAvatarFromImage(ctx, row, raw); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
		"avatar_bucket_key": row.AvatarBucketKey,
		"avatar_url":        row.AvatarURL,
		"avatar_color":      row.AvatarColor,
	}); err != nil {
		return nil, err
	}
	return row, nil
}
