// Package users keeps the userData profile snapshot of signed-in users.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/repository"
)

// Onboarding steps.
const (
	StepLoggedIn      = 1
	StepEmailVerified = 2
	StepProfilePhoto  = 3
)

// Updatable profile fields.
const (
	FieldDisplayName    = "displayName"
	FieldPhotoURL       = "photoURL"
	FieldEmailVerified  = "emailVerified"
	FieldCompletedSteps = "completedSteps"
)

// Service manages user profiles.
type Service struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

// NewService wires the user service.
func NewService(repo repository.UserRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// CompletedSteps derives the onboarding steps satisfied by identity.
func CompletedSteps(identity models.Identity) []int {
	if identity.UID == "" {
		return []int{}
	}
	steps := []int{StepLoggedIn}
	if identity.EmailVerified {
		steps = append(steps, StepEmailVerified)
	}
	if identity.PhotoURL != "" {
		steps = append(steps, StepProfilePhoto)
	}
	return steps
}

// SaveProfile overwrites the profile snapshot with what the identity provider reports.
func (s *Service) SaveProfile(ctx context.Context, identity models.Identity) (models.UserProfile, error) {
	if identity.UID == "" {
		return models.UserProfile{}, models.ValidationError("uid is required")
	}
	profile := models.UserProfile{
		UID:            identity.UID,
		DisplayName:    identity.DisplayName,
		Email:          strings.ToLower(strings.TrimSpace(identity.Email)),
		EmailVerified:  identity.EmailVerified,
		PhotoURL:       identity.PhotoURL,
		CompletedSteps: CompletedSteps(identity),
	}
	if err := s.repo.UpsertUser(ctx, profile); err != nil {
		return models.UserProfile{}, models.PersistenceError("failed to save user data", err)
	}
	s.logger.Debug("user profile saved", zap.String("uid", profile.UID))
	return profile, nil
}

// Get loads a profile.
func (s *Service) Get(ctx context.Context, uid string) (models.UserProfile, error) {
	profile, err := s.repo.GetUser(ctx, uid)
	if err != nil {
		return models.UserProfile{}, models.PersistenceError("failed to get user data", err)
	}
	return profile, nil
}

// UpdateField sets one allow-listed field. value must already have the field's type.
func (s *Service) UpdateField(ctx context.Context, uid, field string, value any) (models.UserProfile, error) {
	if uid == "" {
		return models.UserProfile{}, models.ValidationError("uid is required")
	}
	normalized, err := normalizeField(field, value)
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := s.repo.UpdateUserField(ctx, uid, field, normalized); err != nil {
		return models.UserProfile{}, models.PersistenceError("failed to update user data", err)
	}
	return s.Get(ctx, uid)
}

func normalizeField(field string, value any) (any, error) {
	switch field {
	case FieldDisplayName, FieldPhotoURL:
		str, ok := value.(string)
		if !ok {
			return nil, models.ValidationError("%s must be a string", field)
		}
		return strings.TrimSpace(str), nil
	case FieldEmailVerified:
		b, ok := value.(bool)
		if !ok {
			return nil, models.ValidationError("%s must be a boolean", field)
		}
		return b, nil
	case FieldCompletedSteps:
		steps, err := toSteps(value)
		if err != nil {
			return nil, models.ValidationError("%s: %v", field, err)
		}
		return steps, nil
	default:
		return nil, models.ValidationError("field %q cannot be updated", field)
	}
}

func toSteps(value any) ([]int, error) {
	switch v := value.(type) {
	case []int:
		return validSteps(v)
	case []any:
		steps := make([]int, 0, len(v))
		for _, item := range v {
			f, ok := item.(float64)
			if !ok || f != float64(int(f)) {
				return nil, fmt.Errorf("step %v is not an integer", item)
			}
			steps = append(steps, int(f))
		}
		return validSteps(steps)
	default:
		return nil, errors.New("must be a list of step numbers")
	}
}

func validSteps(steps []int) ([]int, error) {
	for _, step := range steps {
		if step < StepLoggedIn || step > StepProfilePhoto {
			return nil, fmt.Errorf("unknown step %d", step)
		}
	}
	return steps, nil
}

// EmailExists reports whether a profile already uses email.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, models.ValidationError("email is required")
	}
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return false, models.PersistenceError("failed to check email", err)
	}
	return exists, nil
}
