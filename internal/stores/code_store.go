package stores

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
)

// CodeStore keeps short-lived secrets: registration OTPs and password reset tokens.
type CodeStore interface {
	SaveOTP(ctx context.Context, email, code string, ttl time.Duration) error
	// OTP returns apperr.ErrNotFound once the code has expired or been cleared.
	OTP(ctx context.Context, email string) (string, error)
	ClearOTP(ctx context.Context, email string) error
	SaveResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	// ConsumeResetToken is single-use: a second call for the same token fails.
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)
}

type RedisCodeStore struct {
	RDB *redis.Client
}

func otpKey(email string) string { return "otp:" + email }

// reset tokens are stored hashed so a Redis dump does not leak usable links
func resetKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "pwreset:" + hex.EncodeToString(sum[:])
}

func (s *RedisCodeStore) SaveOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.RDB.Set(ctx, otpKey(email), code, ttl).Err()
}

func (s *RedisCodeStore) OTP(ctx context.Context, email string) (string, error) {
	code, err := s.RDB.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperr.NotFound("otp")
	}
	return code, err
}

func (s *RedisCodeStore) ClearOTP(ctx context.Context, email string) error {
	return s.RDB.Del(ctx, otpKey(email)).Err()
}

func (s *RedisCodeStore) SaveResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	return s.RDB.Set(ctx, resetKey(token), userID.String(), ttl).Err()
}

func (s *RedisCodeStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	raw, err := s.RDB.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, apperr.NotFound("reset token")
	}
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(raw)
}
