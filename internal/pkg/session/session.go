package session

import "context"

type contextKey string

const sessionKey contextKey = "session"

// User is the authenticated identity resolved from the identity provider.
type User struct {
	ID    string
	Email string
}

// Session carries the resolved user together with the access token needed to act
// on their behalf against the backend (row-level security scopes every table
// operation to the token's owner).
type Session struct {
	User        User
	AccessToken string
}

// WithSession returns a context carrying the session. Handlers receive the
// session explicitly through the context rather than through any global lookup.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext extracts the session, reporting whether a signed-in user exists.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)

	return s, ok
}

const deviceKey contextKey = "device_id"

// WithDeviceID returns a context carrying the caller's device id, used to scope
// transient state for signed-out users.
func WithDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deviceKey, id)
}

func DeviceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(deviceKey).(string)

	return id, ok
}

// Owner returns the key that transient per-caller state (last estimate, cached
// trip list) is stored under: the user id when signed in, the device id
// otherwise.
func Owner(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		return s.User.ID
	}

	if id, ok := DeviceIDFromContext(ctx); ok {
		return id
	}

	return ""
}
