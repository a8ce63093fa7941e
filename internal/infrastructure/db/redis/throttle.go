package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const throttleKeyPrefix = "login_attempts:"

// LoginThrottle rate-limits credential logins per email over a fixed
// window. The counter keys expire on their own, so a quiet account costs
// nothing to track.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow records one attempt for the email and reports whether it is still
// under the limit. The window starts at the first attempt; the expiry is
// only set when INCR creates the key.
func (t *LoginThrottle) Allow(ctx context.Context, email string) (bool, error) {
	key := throttleKeyPrefix + strings.ToLower(strings.TrimSpace(email))

	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("throttle incr: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return false, fmt.Errorf("throttle expire: %w", err)
		}
	}
	return count <= int64(t.maxAttempts), nil
}

// Reset clears the attempt counter, called after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	key := throttleKeyPrefix + strings.ToLower(strings.TrimSpace(email))
	if err := t.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}
