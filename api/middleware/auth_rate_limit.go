package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Kushal-prime/kushalwearback/api/responses"
	"github.com/Kushal-prime/kushalwearback/pkg/config"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/logger"
	"github.com/Kushal-prime/kushalwearback/pkg/redis"
)

// AuthRateLimiter throttles credential endpoints per email and per source
// IP using redis fixed windows. When redis is unavailable requests pass
// through; authentication still applies.
type AuthRateLimiter struct {
	rdb  *redis.Client
	cfg  config.AuthRateLimitConfig
	logg *logger.Logger
}

// NewAuthRateLimiter builds the limiter. A nil redis client disables it.
func NewAuthRateLimiter(rdb *redis.Client, cfg config.AuthRateLimitConfig, logg *logger.Logger) *AuthRateLimiter {
	return &AuthRateLimiter{rdb: rdb, cfg: cfg, logg: logg}
}

// LimitLogin applies the login window limits.
func (l *AuthRateLimiter) LimitLogin(next http.Handler) http.Handler {
	return l.limit("login", l.cfg.LoginWindow, l.cfg.LoginEmailLimit, l.cfg.LoginIPLimit, next)
}

// LimitSignup applies the signup window limits.
func (l *AuthRateLimiter) LimitSignup(next http.Handler) http.Handler {
	return l.limit("signup", l.cfg.SignupWindow, l.cfg.SignupEmailLimit, l.cfg.SignupIPLimit, next)
}

func (l *AuthRateLimiter) limit(scope string, window time.Duration, emailLimit, ipLimit int, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.rdb == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()

		ip := clientIP(r)
		allowed, err := l.rdb.FixedWindowAllow(ctx, "ratelimit:"+scope+":ip:"+ip, ipLimit, window)
		if err != nil {
			l.logg.Warn(ctx, "rate limit check failed, allowing request")
		} else if !allowed {
			responses.WriteError(ctx, l.logg, w,
				apperrors.New(apperrors.CodeRateLimit, "too many attempts, slow down"))
			return
		}

		if email := peekEmail(r); email != "" {
			allowed, err := l.rdb.FixedWindowAllow(ctx, "ratelimit:"+scope+":email:"+email, emailLimit, window)
			if err != nil {
				l.logg.Warn(ctx, "rate limit check failed, allowing request")
			} else if !allowed {
				responses.WriteError(ctx, l.logg, w,
					apperrors.New(apperrors.CodeRateLimit, "too many attempts for this account"))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// peekEmail reads the email field without consuming the body for the
// downstream handler.
func peekEmail(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var probe struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(probe.Email))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
