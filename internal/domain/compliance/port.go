package compliance

import "context"

// QueryClient runs the system query.
type QueryClient interface {
	QuerySystem(ctx context.Context, systemID string) (*System, error)
}

// StoreClearer is implemented by clients that cache responses.
type StoreClearer interface {
	ClearStore(ctx context.Context) error
}

// Store port (response cache)
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}
