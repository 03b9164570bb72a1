package model

import "time"

// SeatLock is an advisory lock serializing reserve/cancel on one
// (schedule, date) key. The _id encodes the key, so a unique-index insert is
// the acquire; a TTL index on expires_at reaps locks orphaned by a crash.
type SeatLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
