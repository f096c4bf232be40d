package service

import (
	"context"
	"strings"

	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/repository"
	"murmur/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService covers registration, login, profiles and the follow graph.
type UserService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
}

func NewUserService(users repository.UserRepository, follows repository.FollowRepository) *UserService {
	return &UserService{users: users, follows: follows}
}

type RegisterInput struct {
	Username       string `json:"username" validate:"required"`
	Email          string `json:"email" validate:"required"`
	Password       string `json:"password" validate:"required"`
	Bio            string `json:"bio" validate:"max=500"`
	ProfilePicture string `json:"profile_picture" validate:"omitempty,url"`
}

type UpdateProfileInput struct {
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url"`
}

// Profile is a user together with the follow relation seen from them.
type Profile struct {
	User           *models.User
	FollowerIDs    []uint
	FollowersCount int64
	FollowingCount int64
	// IsFollowing is set only for a signed-in viewer looking at someone else.
	IsFollowing *bool
}

// Register validates and stores a new account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	span, ctx := observability.NewSpan(ctx, "UserService.Register")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.users.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Username already taken")
	}
	if existing, err := s.users.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       string(hash),
		Bio:            in.Bio,
		ProfilePicture: in.ProfilePicture,
	}
	if err := s.users.Create(ctx, user); err != nil {
		span.SetError(err)
		return nil, err
	}
	return user, nil
}

// Login checks credentials by username; any mismatch is Unauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.follows.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	_, following, err := s.follows.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(followers))
	for _, f := range followers {
		ids = append(ids, f.ID)
	}
	return &Profile{
		User:           user,
		FollowerIDs:    ids,
		FollowersCount: int64(len(ids)),
		FollowingCount: following,
	}, nil
}

// UpdateProfile changes the supplied fields of userID's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*Profile, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if in.ProfilePicture != nil {
		fields["profile_picture"] = *in.ProfilePicture
	}
	if err := s.users.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// GetProfileFor is GetProfile as seen by viewerID, which is 0 for anonymous callers.
func (s *UserService) GetProfileFor(ctx context.Context, viewerID, userID uint) (*Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if viewerID == 0 || viewerID == userID {
		return profile, nil
	}
	following, err := s.follows.IsFollowing(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}
	profile.IsFollowing = &following
	return profile, nil
}

// Follow makes followerID follow targetID. Following twice is a no-op.
func (s *UserService) Follow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return models.NewValidationError("You cannot follow yourself")
	}
	if err := s.requireUser(ctx, targetID); err != nil {
		return err
	}
	_, err := s.follows.Follow(ctx, followerID, targetID)
	return err
}

// Unfollow removes the edge if present. Unfollowing someone not followed is a no-op.
func (s *UserService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return models.NewValidationError("You cannot unfollow yourself")
	}
	if err := s.requireUser(ctx, targetID); err != nil {
		return err
	}
	_, err := s.follows.Unfollow(ctx, followerID, targetID)
	return err
}

func (s *UserService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.Followers(ctx, userID)
}

func (s *UserService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.Following(ctx, userID)
}

func (s *UserService) requireUser(ctx context.Context, id uint) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("User", id)
	}
	return nil
}
