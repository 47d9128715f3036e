package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is the login audit row; it plays no part in resolving a request.
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Kind      AccountKind        `bson:"user_type"`
	IP        string             `bson:"ip"`
	Device    string             `bson:"device"`
	Timestamp time.Time          `bson:"timestamp"`
}

// MessageLog keeps per-phone send counters for the WhatsApp rate limit.
type MessageLog struct {
	Phone          string    `bson:"phone"`
	TotalSent      int       `bson:"total_sent"`
	FailedAttempts int       `bson:"failed_attempts"`
	LastSent       time.Time `bson:"last_sent"`
	SentLastMinute int       `bson:"sent_last_minute"`
}
