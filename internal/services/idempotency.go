package services

import "context"

// IdempotencyGuard claims submission keys so a replayed request is applied once.
type IdempotencyGuard interface {
	// Claim returns true when the key was not seen before.
	Claim(ctx context.Context, key string) (bool, error)
	// Release frees a claimed key after a failed apply so the client can retry.
	Release(ctx context.Context, key string) error
}

type noopIdempotencyGuard struct{}

// NewNoopIdempotencyGuard accepts every key. It is used when redis is not configured.
func NewNoopIdempotencyGuard() IdempotencyGuard { return noopIdempotencyGuard{} }

func (noopIdempotencyGuard) Claim(context.Context, string) (bool, error) { return true, nil }

func (noopIdempotencyGuard) Release(context.Context, string) error { return nil }
