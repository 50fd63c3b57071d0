package access

import "context"

// contextKey is the type for context keys. Go linter does not like plain strings
type contextKey string

const contextKeyUsername contextKey = "_username_"

// ContextWithUsername returns a new context with the authenticated
// username added to it
func ContextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextKeyUsername, username)
}

// UsernameFromContext retrieves the authenticated username from the
// context, or an empty string if the request was not authenticated.
func UsernameFromContext(ctx context.Context) string {
	username, ok := ctx.Value(contextKeyUsername).(string)
	if ok {
		return username
	}
	return ""
}
