package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/bestravelplan/trip-planning-service/internal/pkg/logger"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/session"
)

type MiddlewareFunc func(http.Handler) http.Handler

func Recoverer(logger *slog.Logger) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if err, _ := rvr.(error); errors.Is(err, http.ErrAbortHandler) {
						// we don't recover http.ErrAbortHandler so the response
						// to the client is aborted, this should not be logged
						panic(rvr)
					}

					logger.ErrorContext(req.Context(), "panic occurred", slog.Any("message", rvr), slog.String("stack_trace", string(debug.Stack())))
					respWriter.WriteHeader(http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}

// CORSMiddleware set CORS related headers.
func CORSMiddleware() func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"}, // mobile webviews and the website share this API
		AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "OPTIONS", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Origin", "Content-Type", "X-Device-Id"},
	})
}

// RequestID add request id to context and response header.
func RequestID() MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), logger.RequestIDKey, requestID)
			w.Header().Set("X-Request-Id", requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DeviceID threads the caller's device id through the context so transient
// state (the last estimate) has an owner even for signed-out users. A device
// without one yet gets a fresh id echoed back in the response header.
func DeviceID() MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := r.Header.Get("X-Device-Id")
			if deviceID == "" {
				deviceID = uuid.New().String()
			}

			ctx := session.WithDeviceID(r.Context(), deviceID)
			w.Header().Set("X-Device-Id", deviceID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserResolver validates an access token against the identity provider.
type UserResolver func(ctx context.Context, accessToken string) (session.User, error)

// Authenticate resolves the bearer token, when present, into a session on the
// context. A missing or invalid token is NOT an error here: the request simply
// proceeds signed-out, and each handler decides whether that blocks the action.
func Authenticate(resolve UserResolver) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)

				return
			}

			user, err := resolve(r.Context(), token)
			if err != nil {
				slog.WarnContext(r.Context(), "failed to resolve session, continuing signed-out",
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)

				return
			}

			ctx := session.WithSession(r.Context(), session.Session{
				User:        user,
				AccessToken: token,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}

	return strings.TrimSpace(token)
}
