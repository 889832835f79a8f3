package port

import "context"

// KV is a key-value backend holding JSON documents.
// Get reports false when the key is absent.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// BatchKV is implemented by backends that can write several keys atomically.
type BatchKV interface {
	KV
	SetBatch(ctx context.Context, entries []KVEntry) error
}

type KVEntry struct {
	Key   string
	Value []byte
}
