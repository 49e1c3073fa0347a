// Package session carries the caller's tenant, organization and user on a
// context.Context.
package session

import "context"

// SystemClientID is the client used when the session names none.
const SystemClientID int64 = 0

// Info is the process session of one caller.
type Info struct {
	// ClientIDs are the tenants the caller may read. The first entry is the
	// login client.
	ClientIDs []int64
	OrgID     int64
	UserID    int64
	Language  string
}

type contextKey struct{}

// WithInfo returns a context carrying info.
func WithInfo(ctx context.Context, info Info) context.Context {
	info.ClientIDs = append([]int64(nil), info.ClientIDs...)
	return context.WithValue(ctx, contextKey{}, info)
}

// WithClientID returns a context whose session is scoped to the given clients.
// Organization, user and language are kept.
func WithClientID(ctx context.Context, clientIDs ...int64) context.Context {
	info, _ := FromContext(ctx)
	info.ClientIDs = clientIDs
	return WithInfo(ctx, info)
}

// FromContext returns the session stored on ctx.
func FromContext(ctx context.Context) (Info, bool) {
	info, ok := ctx.Value(contextKey{}).(Info)
	return info, ok
}

// ClientIDs returns the session clients, or the System client when the
// context carries none.
func ClientIDs(ctx context.Context) []int64 {
	info, ok := FromContext(ctx)
	if !ok || len(info.ClientIDs) == 0 {
		return []int64{SystemClientID}
	}
	return append([]int64(nil), info.ClientIDs...)
}
