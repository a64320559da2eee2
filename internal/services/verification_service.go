package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"dentiq/internal/caching"
	"dentiq/internal/common"
	"dentiq/internal/events"
	"dentiq/internal/models"
	"dentiq/internal/repositories"

	"go.uber.org/zap"
)

type VerificationChannel string

const (
	ChannelEmail VerificationChannel = "email"
	ChannelPhone VerificationChannel = "phone"
)

const (
	verificationCodeDigits = 6
	verificationSendLimit  = 3
	verificationSendWindow = 10 * time.Minute
	verificationMaxGuesses = 5
)

// VerificationService issues and checks one-time codes for email and phone.
type VerificationService interface {
	Send(ctx context.Context, user *models.User, channel VerificationChannel) (time.Time, error)
	Confirm(ctx context.Context, user *models.User, channel VerificationChannel, code string) error
}

type verificationService struct {
	users     repositories.UserRepository
	cache     caching.CacheService
	publisher events.Publisher
	codeTTL   time.Duration
	log       *zap.Logger
	newCode   func() (string, error)
}

func NewVerificationService(users repositories.UserRepository, cache caching.CacheService, publisher events.Publisher, codeTTL time.Duration, log *zap.Logger) VerificationService {
	return &verificationService{
		users:     users,
		cache:     cache,
		publisher: publisher,
		codeTTL:   codeTTL,
		log:       log,
		newCode:   randomCode,
	}
}

func verificationKey(channel VerificationChannel, user *models.User) string {
	return fmt.Sprintf("dentiq:verify:%s:%s", channel, user.ID)
}

func (s *verificationService) destination(user *models.User, channel VerificationChannel) (string, error) {
	switch channel {
	case ChannelEmail:
		return user.Email, nil
	case ChannelPhone:
		if user.Phone == nil || strings.TrimSpace(*user.Phone) == "" {
			return "", common.NewValidationError("phone", "no phone number on file")
		}
		return *user.Phone, nil
	}
	return "", common.NewValidationError("channel", "must be one of: email phone")
}

// Send stores a fresh code and hands it to the notification queue.
func (s *verificationService) Send(ctx context.Context, user *models.User, channel VerificationChannel) (time.Time, error) {
	dest, err := s.destination(user, channel)
	if err != nil {
		return time.Time{}, err
	}

	limited, err := s.cache.IsRateLimited(ctx, "verify-send:"+user.ID.String(), verificationSendLimit, verificationSendWindow)
	if err != nil {
		return time.Time{}, fmt.Errorf("check send rate: %w", err)
	}
	if limited {
		return time.Time{}, fmt.Errorf("too many verification requests: %w", common.ErrConflict)
	}

	code, err := s.newCode()
	if err != nil {
		return time.Time{}, fmt.Errorf("generate code: %w", err)
	}
	if err := s.cache.SetString(ctx, verificationKey(channel, user), code, s.codeTTL); err != nil {
		return time.Time{}, fmt.Errorf("store code: %w", err)
	}

	expiresAt := time.Now().Add(s.codeTTL)
	key := events.KeyVerificationEmail
	if channel == ChannelPhone {
		key = events.KeyVerificationPhone
	}
	msg := events.VerificationRequested{
		UserID:      user.ID,
		Channel:     string(channel),
		Destination: dest,
		Code:        code,
		ExpiresAt:   expiresAt,
	}
	if err := s.publisher.Publish(ctx, key, msg); err != nil {
		return time.Time{}, fmt.Errorf("queue verification: %w", err)
	}

	s.log.Info("verification code sent", zap.String("user_id", user.ID.String()), zap.String("channel", string(channel)))
	return expiresAt, nil
}

// Confirm checks code against the stored one. Every attempt counts toward a
// per-channel limit; once it is exceeded the stored code is discarded.
func (s *verificationService) Confirm(ctx context.Context, user *models.User, channel VerificationChannel, code string) error {
	if _, err := s.destination(user, channel); err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if len(code) != verificationCodeDigits {
		return common.NewValidationError("code", fmt.Sprintf("must have length %d", verificationCodeDigits))
	}

	key := verificationKey(channel, user)
	limited, err := s.cache.IsRateLimited(ctx, fmt.Sprintf("verify-confirm:%s:%s", channel, user.ID), verificationMaxGuesses, s.codeTTL)
	if err != nil {
		return fmt.Errorf("check confirm rate: %w", err)
	}
	if limited {
		// Burn the code so it cannot be guessed once the window reopens.
		if err := s.cache.Delete(ctx, key); err != nil {
			s.log.Warn("failed to delete verification code", zap.Error(err))
		}
		s.log.Warn("verification attempts exhausted", zap.String("user_id", user.ID.String()), zap.String("channel", string(channel)))
		return fmt.Errorf("too many verification attempts: %w", common.ErrConflict)
	}

	stored, err := s.cache.GetString(ctx, key)
	if err != nil {
		return fmt.Errorf("load code: %w", err)
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return common.NewValidationError("code", "is invalid or expired")
	}

	switch channel {
	case ChannelEmail:
		err = s.users.MarkEmailVerified(ctx, user.ID)
	case ChannelPhone:
		err = s.users.MarkPhoneVerified(ctx, user.ID)
	}
	if err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("failed to delete used verification code", zap.Error(err))
	}
	return nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
