package authclient

import "context"

type branchContextKey struct{}

// WithBranch scopes a request to a specific pharmacy branch, overriding
// the session's selected branch for that call. The [Interceptor] turns it
// into the X-Branch-ID header.
func WithBranch(ctx context.Context, branchID string) context.Context {
	return context.WithValue(ctx, branchContextKey{}, branchID)
}

func branchFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(branchContextKey{}).(string)
	return id
}
