package v1

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/userkit/user-service/internal/auth"
	"github.com/userkit/user-service/internal/core/domain"
	"github.com/userkit/user-service/middleware"
)

// TokenIssuer mints signed session tokens carrying {username, id}.
type TokenIssuer interface {
	Issue(username, userID string) (string, error)
}

// WelcomeMailer sends the post-signup welcome email. Best-effort: errors
// are logged by the caller, never surfaced to the response.
type WelcomeMailer interface {
	SendWelcome(ctx context.Context, email, username string) error
}

// AssetStore uploads a file to the external asset host and returns its
// public URL.
type AssetStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	ID       string
	Username string
	Token    string
}

// UserService implements user-management business rules.
// It depends on the repository and collaborator interfaces (injected via
// constructor) and MUST NOT access the database or the driver directly.
type UserService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	mailer WelcomeMailer
	assets AssetStore
}

// NewUserService creates a new UserService with the given dependencies.
// mailer and assets may be nil when the corresponding collaborator is not
// configured; the affected paths degrade gracefully.
func NewUserService(users domain.UserRepository, tokens TokenIssuer, mailer WelcomeMailer, assets AssetStore) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		assets: assets,
	}
}

// Signup registers a new user: duplicate check, password hash, create,
// then a detached welcome email.
//
// The check-then-create pair is not atomic: concurrent signups for the
// same username can both pass the check and race to insert. The store has
// no unique index on username, so the uniqueness invariant is advisory.
func (s *UserService) Signup(ctx context.Context, username, password, email string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.signup", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("check existing user %q: %w", username, err)
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("signup.success", false))
		return nil, fmt.Errorf("register user %q: %w", username, ErrUserExists)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		Username: username,
		Email:    email,
		Password: hash,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert user %q: %w", username, err)
	}

	// Detached from the request: a mail failure must never alter the
	// already-decided response.
	if s.mailer != nil {
		go s.sendWelcome(user.Email, user.Username)
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID.Hex()),
		attribute.Bool("signup.success", true),
	)
	span.AddEvent("user.registered")

	return user, nil
}

func (s *UserService) sendWelcome(email, username string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.mailer.SendWelcome(ctx, email, username); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Welcome email failed")
	}
}

// Login verifies credentials and mints a session token.
//
// Unknown usernames and wrong passwords are distinguishable outcomes,
// which leaks username existence to the caller. Kept as-is: collapsing
// them would change the response contract.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	ctx, span := middleware.StartSpan(ctx, "user.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", username, err)
	}
	if user == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", username, ErrUserNotFound)
	}

	if !auth.VerifyPassword(password, user.Password) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", username, ErrInvalidCredentials)
	}

	userID := user.ID.Hex()
	token, err := s.tokens.Issue(user.Username, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token for user %q: %w", username, err)
	}

	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return &LoginResult{
		ID:       userID,
		Username: user.Username,
		Token:    token,
	}, nil
}

// GetUser returns a single user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", id),
	))
	defer span.End()

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("get user %q: %w", id, ErrUserNotFound)
	}

	return user, nil
}

// GetAllUsers returns every user. An empty store is reported as the soft
// error ErrNoUsers, not as a fault.
func (s *UserService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	users, err := s.users.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query users: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}

	span.SetAttributes(attribute.Int("user.count", len(users)))

	return users, nil
}

// UpdateUser merges the provided fields into an existing user. A password
// in the update is hashed before it reaches the store.
func (s *UserService) UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", id),
	))
	defer span.End()

	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", id, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("update user %q: %w", id, ErrUserNotFound)
	}

	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("hash password: %w", err)
		}
		update.Password = &hash
	}

	updated, err := s.users.Update(ctx, id, update)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update user %q: %w", id, err)
	}
	if updated == nil {
		// Deleted between the existence check and the update.
		return nil, fmt.Errorf("update user %q: %w", id, ErrUpdateFailed)
	}

	span.AddEvent("user.updated")

	return updated, nil
}

// DeleteUser removes a user and returns the pre-deletion snapshot.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", id),
	))
	defer span.End()

	user, err := s.users.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("delete user %q: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("delete user %q: %w", id, ErrUserNotFound)
	}

	span.AddEvent("user.deleted")

	return user, nil
}

// UploadProfileImage stores the image on the asset host and persists the
// returned URL on the user's profile field.
func (s *UserService) UploadProfileImage(ctx context.Context, id, filename, contentType string, body io.Reader) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "user.upload_profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", id),
	))
	defer span.End()

	if body == nil {
		return "", fmt.Errorf("upload profile for user %q: %w", id, ErrMissingFile)
	}
	if s.assets == nil {
		return "", fmt.Errorf("upload profile for user %q: asset store not configured", id)
	}

	url, err := s.assets.Upload(ctx, filename, contentType, body)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("upload asset for user %q: %w", id, err)
	}

	updated, err := s.users.Update(ctx, id, domain.UserUpdate{Profile: &url})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("persist profile url for user %q: %w", id, err)
	}
	if updated == nil {
		return "", fmt.Errorf("persist profile url for user %q: %w", id, ErrUpdateFailed)
	}

	span.SetAttributes(attribute.String("asset.url", url))
	span.AddEvent("profile.updated")

	return url, nil
}
