package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/petbnb/marketplace/internal/api/handler"
	"github.com/petbnb/marketplace/internal/api/metrics"
	"github.com/petbnb/marketplace/internal/core/ports"
)

// HeaderIdempotencyKey is the request header clients set to make a create
// request safe to retry.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplay marks responses served from the store.
const HeaderIdempotentReplay = "Idempotent-Replayed"

const ctxIdempotencyKey = "idempotency_key"

// Idempotency replays the first successful response recorded for a repeated
// Idempotency-Key. Keys are scoped to the caller, method and path. A retry that
// arrives while the first request still runs gets 409. Requests without the
// header pass straight through. Store failures are logged and the request
// proceeds unprotected.
func Idempotency(store ports.IdempotencyStore, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		record := echomiddleware.BodyDumpWithConfig(echomiddleware.BodyDumpConfig{
			Handler: func(c echo.Context, _, resBody []byte) {
				key, _ := c.Get(ctxIdempotencyKey).(string)
				status := c.Response().Status
				if key == "" || status < 200 || status >= 300 {
					return
				}
				resp := ports.StoredResponse{
					Status:      status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        append([]byte(nil), resBody...),
				}
				if err := store.Save(c.Request().Context(), key, resp); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("idempotency save failed")
				}
			},
		})(next)

		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
			if raw == "" {
				return next(c)
			}
			key := scopedKey(c, raw)

			ctx := c.Request().Context()
			if replayed, err := replay(c, store, key, log); replayed || err != nil {
				return err
			}

			reserved, err := store.Reserve(ctx, key)
			switch {
			case err != nil:
				log.Warn().Err(err).Str("key", key).Msg("idempotency reserve failed")
			case !reserved:
				return echo.NewHTTPError(http.StatusConflict, "a request with this Idempotency-Key is already in progress")
			default:
				defer func() {
					if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
						log.Warn().Err(err).Str("key", key).Msg("idempotency release failed")
					}
				}()
				// The holder may have finished between the lookup and the claim.
				if replayed, err := replay(c, store, key, log); replayed || err != nil {
					return err
				}
			}

			c.Set(ctxIdempotencyKey, key)
			return record(c)
		}
	}
}

// replay writes the stored response for key when there is one.
func replay(c echo.Context, store ports.IdempotencyStore, key string, log zerolog.Logger) (bool, error) {
	stored, err := store.Lookup(c.Request().Context(), key)
	switch {
	case err == nil:
		metrics.IdempotentReplaysTotal.Inc()
		c.Response().Header().Set(HeaderIdempotentReplay, "true")
		return true, c.Blob(stored.Status, stored.ContentType, stored.Body)
	case !errors.Is(err, ports.ErrIdempotencyMiss):
		log.Warn().Err(err).Str("key", key).Msg("idempotency lookup failed")
	}
	return false, nil
}

func scopedKey(c echo.Context, raw string) string {
	userID, _ := c.Get(handler.CtxUserID).(string)
	return strings.Join([]string{userID, c.Request().Method, c.Request().URL.Path, raw}, ":")
}
