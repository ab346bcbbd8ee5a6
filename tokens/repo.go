package tokens

import "context"

// Repo is a local-storage-like key/value store. Get returns errors.ErrNotFound for a missing key.
type Repo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
