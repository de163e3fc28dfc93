package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/altora/accountd/internal/models"
	"github.com/altora/accountd/pkg/crypto"
	"github.com/altora/accountd/pkg/logger"
	"github.com/altora/accountd/pkg/mail"
	"github.com/altora/accountd/pkg/metrics"
)

const defaultResetTokenTTL = 24 * time.Hour

// AccountOption customises the AccountService.
type AccountOption func(*AccountService)

// WithClock injects a custom time source, primarily for tests.
func WithClock(clock func() time.Time) AccountOption {
	return func(s *AccountService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithResetTokenTTL overrides the password-reset token lifetime.
func WithResetTokenTTL(ttl time.Duration) AccountOption {
	return func(s *AccountService) {
		if ttl > 0 {
			s.resetTTL = ttl
		}
	}
}

// AccountService sequences the account lifecycle operations against the user
// store and dispatches the corresponding notification after each state change.
type AccountService struct {
	db       *gorm.DB
	mailer   mail.Mailer
	resetTTL time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// NewAccountService constructs an AccountService with the provided dependencies.
// The mailer may be nil, in which case notifications are skipped entirely.
func NewAccountService(db *gorm.DB, mailer mail.Mailer, opts ...AccountOption) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service: db is required")
	}

	service := &AccountService{
		db:       db,
		mailer:   mailer,
		resetTTL: defaultResetTokenTTL,
		now:      time.Now,
		log:      logger.WithModule("account"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Register creates an unverified account with a fresh hash/salt pair and a
// verification token, then dispatches the registration e-mail. The existence
// check is advisory; the unique index on email is authoritative, so a
// duplicate-key insert from a concurrent registration also maps to ErrEmailTaken.
func (s *AccountService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("account service: email is required")
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		metrics.AccountOperations.WithLabelValues("register", "conflict").Inc()
		return nil, ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("account service: lookup email: %w", err)
	}

	hash, salt, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("account service: hash password: %w", err)
	}

	token, err := crypto.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("account service: generate verification token: %w", err)
	}

	user := models.User{
		Email:             email,
		PasswordHash:      hash,
		PasswordSalt:      salt,
		VerificationToken: &token,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			metrics.AccountOperations.WithLabelValues("register", "conflict").Inc()
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("account service: create user: %w", err)
	}

	metrics.AccountOperations.WithLabelValues("register", "success").Inc()

	s.notify(ctx, user.Email, "Registration",
		fmt.Sprintf("Please use the token below to activate your account.\n\n%s\n", token))

	return &user, nil
}

// Login authenticates an account. It reports three distinct failures: unknown
// e-mail, password mismatch, and an account that has not completed e-mail
// verification. No session or token is issued.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		metrics.AccountOperations.WithLabelValues("login", "not_found").Inc()
		return nil, err
	}

	if !crypto.VerifyPassword(password, user.PasswordHash, user.PasswordSalt) {
		metrics.AccountOperations.WithLabelValues("login", "invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified() {
		metrics.AccountOperations.WithLabelValues("login", "not_verified").Inc()
		return nil, ErrNotVerified
	}

	metrics.AccountOperations.WithLabelValues("login", "success").Inc()
	return user, nil
}

// Verify consumes a verification token: it stamps VerifiedAt, clears the token
// and dispatches the confirmation e-mail.
func (s *AccountService) Verify(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidVerificationToken
	}

	var user models.User
	if err := s.db.WithContext(ctx).
		Where("verification_token = ?", token).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AccountOperations.WithLabelValues("verify", "invalid_token").Inc()
			return nil, ErrInvalidVerificationToken
		}
		return nil, fmt.Errorf("account service: find verification token: %w", err)
	}

	now := s.now()
	if err := s.db.WithContext(ctx).
		Model(&user).
		Updates(map[string]any{
			"verified_at":        now,
			"verification_token": nil,
		}).Error; err != nil {
		return nil, fmt.Errorf("account service: mark verified: %w", err)
	}

	user.VerifiedAt = &now
	user.VerificationToken = nil

	metrics.AccountOperations.WithLabelValues("verify", "success").Inc()

	s.notify(ctx, user.Email, "Account Verify", "Your account has been verified.\n")

	return &user, nil
}

// ForgotPassword issues a fresh time-limited reset token and mails it to the
// account's address. A new request replaces any pending token.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) (*models.User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		metrics.AccountOperations.WithLabelValues("forgot_password", "not_found").Inc()
		return nil, err
	}

	token, err := crypto.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("account service: generate reset token: %w", err)
	}

	expires := s.now().Add(s.resetTTL)
	if err := s.db.WithContext(ctx).
		Model(user).
		Updates(map[string]any{
			"password_reset_token": token,
			"reset_token_expires":  expires,
		}).Error; err != nil {
		return nil, fmt.Errorf("account service: store reset token: %w", err)
	}

	user.PasswordResetToken = &token
	user.ResetTokenExpires = &expires

	metrics.AccountOperations.WithLabelValues("forgot_password", "success").Inc()

	s.notify(ctx, user.Email, "Forgot Password",
		fmt.Sprintf("Use the token below to reset your password. It is valid for %s.\n\n%s\n",
			s.resetTTL, token))

	return user, nil
}

// ResetPassword replaces the stored hash/salt pair and clears the reset token
// and its expiry. The token must match and its expiry must be strictly in the
// future; an unknown and an expired token are indistinguishable to the caller.
func (s *AccountService) ResetPassword(ctx context.Context, token, password string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidResetToken
	}

	var user models.User
	if err := s.db.WithContext(ctx).
		Where("password_reset_token = ?", token).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AccountOperations.WithLabelValues("reset_password", "invalid_token").Inc()
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("account service: find reset token: %w", err)
	}

	if user.ResetTokenExpires == nil || !user.ResetTokenExpires.After(s.now()) {
		metrics.AccountOperations.WithLabelValues("reset_password", "expired_token").Inc()
		return nil, ErrInvalidResetToken
	}

	hash, salt, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("account service: hash password: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Model(&user).
		Updates(map[string]any{
			"password_hash":        hash,
			"password_salt":        salt,
			"password_reset_token": nil,
			"reset_token_expires":  nil,
		}).Error; err != nil {
		return nil, fmt.Errorf("account service: reset password: %w", err)
	}

	user.PasswordHash = hash
	user.PasswordSalt = salt
	user.PasswordResetToken = nil
	user.ResetTokenExpires = nil

	metrics.AccountOperations.WithLabelValues("reset_password", "success").Inc()
	return &user, nil
}

// SendMail forwards an arbitrary message to the mail collaborator. Delivery is
// best-effort; failures are logged and not surfaced to the caller.
func (s *AccountService) SendMail(ctx context.Context, to, subject, body string) {
	s.notify(ctx, to, subject, body)
}

func (s *AccountService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("account service: find by email: %w", err)
	}
	return &user, nil
}

// notify dispatches a notification after a successful state change. The mail
// transport failure channel is independent from the operation result: errors
// are logged and never propagated.
func (s *AccountService) notify(ctx context.Context, to, subject, body string) {
	if s.mailer == nil {
		return
	}

	err := s.mailer.Send(ctx, mail.Message{To: to, Subject: subject, Body: body})
	switch {
	case err == nil:
		metrics.EmailsSent.WithLabelValues("sent").Inc()
	case errors.Is(err, mail.ErrSMTPDisabled):
		metrics.EmailsSent.WithLabelValues("disabled").Inc()
	default:
		metrics.EmailsSent.WithLabelValues("failed").Inc()
		s.log.Warn("notification dispatch failed",
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}
