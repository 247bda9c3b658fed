package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/models"
	"github.com/example/almajid/internal/repository"
	"github.com/example/almajid/internal/utils"
)

// ResetTokenTTL is how long a password-reset token stays valid.
const ResetTokenTTL = time.Hour

// Options configures a Service.
type Options struct {
	JWTSecret  string
	TokenTTL   time.Duration
	AdminEmail string
}

// Service implements the identity provider on top of the account tables.
type Service struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	hub    *Hub
	opts   Options
	log    *zap.Logger
	now    func() time.Time
}

// NewService constructs a Service publishing to hub.
func NewService(users repository.UserRepository, tokens repository.TokenRepository, hub *Hub, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	opts.AdminEmail = NormalizeEmail(opts.AdminEmail)
	return &Service{users: users, tokens: tokens, hub: hub, opts: opts, log: log, now: time.Now}
}

// Subscribe registers a listener for session changes.
func (s *Service) Subscribe(l Listener) (unsubscribe func()) {
	return s.hub.Subscribe(l)
}

// IsAdmin reports whether user may use the admin panel: role admin, or the
// configured admin address.
func (s *Service) IsAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	return user.Role == models.RoleAdmin || (s.opts.AdminEmail != "" && NormalizeEmail(user.Email) == s.opts.AdminEmail)
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	FullName string                 `json:"full_name"`
	Phone    string                 `json:"phone"`
	Metadata map[string]interface{} `json:"metadata"`
}

// SignUp creates an account and signs it in. The role is always user,
// whatever the metadata says.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	email := NormalizeEmail(in.Email)
	fields := map[string]string{}
	if !ValidEmail(email) {
		fields["email"] = "invalid email address"
	}
	if len(in.Password) < MinPasswordLength {
		fields["password"] = "password must be at least 6 characters"
	}
	phone := strings.TrimSpace(in.Phone)
	if phone != "" && !ValidPhone(phone) {
		fields["phone"] = "invalid phone number"
	}
	if len(fields) > 0 {
		return nil, &apperrors.ErrValidation{Message: "invalid sign-up data", Fields: fields}
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	metadata := datatypes.JSONMap{}
	for k, v := range in.Metadata {
		metadata[k] = v
	}
	delete(metadata, "role")

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        phone,
		Role:         models.RoleUser,
		Metadata:     metadata,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsConflict(err) {
			return nil, &apperrors.ErrConflict{Message: "email already registered"}
		}
		return nil, err
	}

	s.log.Info("account created", zap.String("email", email))
	return s.startSession(user)
}

// SignIn verifies credentials and issues a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, &apperrors.ErrUnauthorized{Message: "invalid credentials"}
		}
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, &apperrors.ErrUnauthorized{Message: "invalid credentials"}
	}
	return s.startSession(user)
}

func (s *Service) startSession(user *models.User) (*Session, error) {
	token, claims, err := utils.GenerateToken(s.opts.JWTSecret, user.ID, user.Email, user.Role, s.opts.TokenTTL)
	if err != nil {
		return nil, err
	}
	session := &Session{
		Token:     token,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
		User:      *user,
		IsAdmin:   s.IsAdmin(user),
	}
	s.hub.Publish(Event{Kind: EventSignedIn, Email: user.Email, Session: session})
	return session, nil
}

// Authenticate resolves a bearer token to its session. Revoked, expired and
// malformed tokens are unauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := utils.ParseToken(s.opts.JWTSecret, token)
	if err != nil {
		return nil, &apperrors.ErrUnauthorized{Message: "invalid token"}
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, &apperrors.ErrUnauthorized{Message: "session has ended"}
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, &apperrors.ErrUnauthorized{Message: "account no longer exists"}
		}
		return nil, err
	}
	return &Session{
		Token:     token,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
		User:      *user,
		IsAdmin:   s.IsAdmin(user),
	}, nil
}

// SignOut revokes the session's token until it would have expired.
func (s *Service) SignOut(ctx context.Context, session *Session) error {
	if err := s.tokens.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return err
	}
	s.hub.Publish(Event{Kind: EventSignedOut, Email: session.User.Email})
	return nil
}

// ProfileInput is a partial profile update. Nil fields are left alone;
// Metadata keys are merged into the stored metadata.
type ProfileInput struct {
	FullName *string                `json:"full_name"`
	Phone    *string                `json:"phone"`
	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateProfile applies in to the session's account and returns the
// refreshed session.
func (s *Service) UpdateProfile(ctx context.Context, session *Session, in ProfileInput) (*Session, error) {
	user := session.User
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, apperrors.Validation("full_name", "full name is required")
		}
		user.FullName = name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone != "" && !ValidPhone(phone) {
			return nil, apperrors.Validation("phone", "invalid phone number")
		}
		user.Phone = phone
	}
	if len(in.Metadata) > 0 {
		merged := datatypes.JSONMap{}
		for k, v := range user.Metadata {
			merged[k] = v
		}
		for k, v := range in.Metadata {
			if k == "role" {
				continue
			}
			merged[k] = v
		}
		user.Metadata = merged
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, &user); err != nil {
		return nil, err
	}

	updated := *session
	updated.User = user
	s.hub.Publish(Event{Kind: EventUserUpdated, Email: user.Email, Session: &updated})
	return &updated, nil
}

// RequestPasswordReset issues a reset token for email. Unknown addresses
// yield an empty token and no error so callers cannot probe for accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		return "", apperrors.Validation("email", "invalid email address")
	}
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if apperrors.IsNotFound(err) {
			s.log.Info("password reset requested for unknown email")
			return "", nil
		}
		return "", err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)
	if err := s.tokens.CreateReset(ctx, &models.PasswordResetToken{
		Email:     email,
		Token:     token,
		ExpiresAt: s.now().Add(ResetTokenTTL),
	}); err != nil {
		return "", err
	}

	s.hub.Publish(Event{Kind: EventPasswordRecovery, Email: email})
	return token, nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.Validation("password", "password must be at least 6 characters")
	}
	reset, err := s.tokens.ConsumeReset(ctx, strings.TrimSpace(token), s.now())
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.Validation("token", "reset link is invalid or has expired")
		}
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, reset.Email, hash); err != nil {
		return err
	}
	s.hub.Publish(Event{Kind: EventUserUpdated, Email: reset.Email})
	return nil
}
