package lettermint

import "github.com/google/uuid"

// NewIdempotencyKey returns a random key suitable for Email.IdempotencyKey.
func NewIdempotencyKey() string {
	return uuid.NewString()
}
