package authentication

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modulith/internal/config"
	"modulith/pkg/auth"
	"modulith/pkg/domain"
	"modulith/pkg/serrors"
	"modulith/pkg/storage"
)

const (
	maxUsernameLength = 30
	maxEmailLength    = 50
	minPasswordLength = 8
)

// Options configure the authentication service.
type Options struct {
	// TokenManager issues and verifies login tokens.
	TokenManager *auth.TokenManager
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) (Options, error) {
	tokens, err := auth.NewTokenManager(auth.TokenManagerOptions{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTTL: cfg.JWT.RefreshTokenTTL,
	})
	if err != nil {
		return Options{}, fmt.Errorf("could not create token manager: %w", err)
	}

	return Options{TokenManager: tokens}, nil
}

// service is the concrete implementation of the Service interface. It
// coordinates persistence with the storage layer and defers event delivery
// to the job queue so announcements only go out after commit.
type service struct {
	options Options
	storage storage.Storage
}

// New creates a new Service backed by the provided storage.
func New(store storage.Storage, options Options) Service {
	return &service{
		options: options,
		storage: store,
	}
}

func validateUsername(username string) error {
	if username == "" || len(username) > maxUsernameLength {
		return serrors.With(serrors.ErrBadRequest,
			"username must be between 1 and %d characters", maxUsernameLength)
	}

	return nil
}

func validateEmail(email string) error {
	if email == "" || len(email) > maxEmailLength || !strings.Contains(email, "@") {
		return serrors.With(serrors.ErrBadRequest,
			"email must be a valid address of at most %d characters", maxEmailLength)
	}

	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return serrors.With(serrors.ErrBadRequest,
			"password must be at least %d characters", minPasswordLength)
	}

	return nil
}

// Register stores a new user and enqueues a UserSaved announcement in the
// same transaction, so the event is only delivered when the user is visible.
func (s *service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := validateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	var user *domain.User
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		taken, err := tx.UsernameOrEmailTaken(ctx, input.Username, input.Email, domain.UserID{})
		if err != nil {
			return fmt.Errorf("could not check username/email uniqueness: %w", err)
		}
		if taken {
			return serrors.With(serrors.ErrConflict, "username or email already taken")
		}

		user, err = tx.StoreUser(ctx, domain.User{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("could not store user: %w", err)
		}

		return announceUserSaved(ctx, tx, user)
	}); err != nil {
		return nil, err //nolint: wrapcheck
	}

	return user, nil
}

// Login verifies the password for a user found by username or email. Unknown
// logins and wrong passwords return the same unauthorized error.
func (s *service) Login(ctx context.Context, login, password string) (*TokenPair, error) {
	user, err := s.storage.UserByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("could not get user by login: %w", err)
	}
	if user == nil {
		return nil, serrors.With(serrors.ErrUnauthorized, "invalid credentials")
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("could not verify password: %w", err)
	}
	if !ok {
		return nil, serrors.With(serrors.ErrUnauthorized, "invalid credentials")
	}

	return s.issuePair(user.ID)
}

// Refresh exchanges a refresh token for a new pair. The user must still
// exist and not be deleted.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.options.TokenManager.Verify(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}
	if user == nil {
		return nil, serrors.With(serrors.ErrUnauthorized, "user no longer exists")
	}

	return s.issuePair(user.ID)
}

func (s *service) issuePair(userID domain.UserID) (*TokenPair, error) {
	access, err := s.options.TokenManager.IssueAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("could not issue access token: %w", err)
	}
	refresh, err := s.options.TokenManager.IssueRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("could not issue refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// User fetches a single user by ID. It returns a not-found error when no
// matching user exists.
func (s *service) User(ctx context.Context, id domain.UserID) (*domain.User, error) {
	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	if user == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user not found")
	}

	return user, nil
}

// Users returns a page of users. It supports cursor-based pagination using an
// RFC3339 timestamp string and returns the next cursor when more results are
// available.
func (s *service) Users(ctx context.Context, cursor string, limit uint) ([]domain.User, string, error) {
	var cursorTime time.Time
	if cursor != "" {
		t, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return nil, "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
		}
		cursorTime = t
	}

	page, err := s.storage.Users(ctx, cursorTime, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get users: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = page.NextCursor.Format(time.RFC3339Nano)
	}

	return page.Users, next, nil
}

// Update applies a partial update. Username and email changes are checked
// for uniqueness, password changes are re-hashed, and the saved user is
// announced on the bus in the same transaction.
func (s *service) Update(ctx context.Context, id domain.UserID, input UpdateInput) (*domain.User, error) {
	updates := storage.UserUpdates{
		Username: input.Username,
		Email:    input.Email,
	}
	if input.Username != nil {
		if err := validateUsername(*input.Username); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		if err := validateEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}

		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("could not hash password: %w", err)
		}
		updates.PasswordHash = &hash
	}

	var user *domain.User
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if input.Username != nil || input.Email != nil {
			current, err := tx.UserByID(ctx, id)
			if err != nil {
				return fmt.Errorf("could not get user: %w", err)
			}
			if current == nil {
				return serrors.With(serrors.ErrNotFound, "user not found")
			}

			username := current.Username
			if input.Username != nil {
				username = *input.Username
			}
			email := current.Email
			if input.Email != nil {
				email = *input.Email
			}

			taken, err := tx.UsernameOrEmailTaken(ctx, username, email, id)
			if err != nil {
				return fmt.Errorf("could not check username/email uniqueness: %w", err)
			}
			if taken {
				return serrors.With(serrors.ErrConflict, "username or email already taken")
			}
		}

		var err error
		user, err = tx.UpdateUserByID(ctx, id, updates)
		if err != nil {
			return fmt.Errorf("could not update user: %w", err)
		}
		if user == nil {
			return serrors.With(serrors.ErrNotFound, "user not found")
		}

		return announceUserSaved(ctx, tx, user)
	}); err != nil {
		return nil, err //nolint: wrapcheck
	}

	return user, nil
}

// Delete soft-deletes a user. If the user does not exist, a not-found error
// is returned.
func (s *service) Delete(ctx context.Context, id domain.UserID) error {
	user, err := s.storage.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}
	if user == nil {
		return serrors.With(serrors.ErrNotFound, "user not found")
	}

	return nil
}
