package redis

import (
	"context"
	"fmt"
	"time"
)

// SequenceStore tracks how many deterministic generations a user has consumed.
// The counter lives in Redis so it survives restarts and is shared across
// instances; it resets itself after ttl of inactivity.
type SequenceStore struct {
	client Client
	ttl    time.Duration
}

func NewSequenceStore(client Client, ttl time.Duration) *SequenceStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SequenceStore{client: client, ttl: ttl}
}

// Next returns the zero-based position of this generation in the user's
// sequence and advances the counter.
func (s *SequenceStore) Next(ctx context.Context, userID string) (int64, error) {
	key := sequenceKey(userID)
	n, err := s.client.Incr(ctx, key)
	if err != nil {
		return 0, err
	}
	// Sliding reset: every hit pushes the expiry out.
	if err := s.client.Expire(ctx, key, s.ttl); err != nil {
		return 0, err
	}
	return n - 1, nil
}

// Reset clears the user's counter so the sequence starts over.
func (s *SequenceStore) Reset(ctx context.Context, userID string) error {
	return s.client.Del(ctx, sequenceKey(userID))
}

func sequenceKey(userID string) string {
	return fmt.Sprintf("prediction_seq:%s", userID)
}
