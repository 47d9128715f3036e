package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizdesk/models"
	"bizdesk/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessagesPerMinute caps sends to one phone number.
const MessagesPerMinute = 6

// MessageLogRepository keeps per-phone counters in the messagelogs
// collection and enforces MessagesPerMinute.
type MessageLogRepository struct {
	logs *mongo.Collection
	now  func() time.Time
}

func NewMessageLogRepository(logs *mongo.Collection) *MessageLogRepository {
	return &MessageLogRepository{logs: logs, now: time.Now}
}

var _ services.MessageLimiter = (*MessageLogRepository)(nil)

func (r *MessageLogRepository) Allow(ctx context.Context, phone string) error {
	entry, err := r.find(ctx, phone)
	if err != nil {
		return err
	}
	if !allowSend(entry, r.now()) {
		return services.ErrRateLimited
	}
	return nil
}

func (r *MessageLogRepository) RecordSent(ctx context.Context, phone string) error {
	entry, err := r.find(ctx, phone)
	if err != nil {
		return err
	}
	_, err = r.logs.UpdateOne(ctx, bson.M{"phone": phone}, sentUpdate(entry, r.now()), options.Update().SetUpsert(true))
	return err
}

func (r *MessageLogRepository) RecordFailed(ctx context.Context, phone string) error {
	_, err := r.logs.UpdateOne(ctx, bson.M{"phone": phone}, failedUpdate(r.now()), options.Update().SetUpsert(true))
	return err
}

// Prune removes counters for numbers not messaged since cutoff.
func (r *MessageLogRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.logs.DeleteMany(ctx, bson.M{"last_sent": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// find returns nil, nil for a number with no counters yet.
func (r *MessageLogRepository) find(ctx context.Context, phone string) (*models.MessageLog, error) {
	var entry models.MessageLog
	err := r.logs.FindOne(ctx, bson.M{"phone": phone}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read message log: %w", err)
	}
	return &entry, nil
}

// windowExpired reports whether a minute has passed since the last send,
// which restarts the per-minute count.
func windowExpired(entry *models.MessageLog, now time.Time) bool {
	return entry == nil || now.Sub(entry.LastSent) >= time.Minute
}

func allowSend(entry *models.MessageLog, now time.Time) bool {
	return windowExpired(entry, now) || entry.SentLastMinute < MessagesPerMinute
}

func sentUpdate(entry *models.MessageLog, now time.Time) bson.M {
	set := bson.M{"last_sent": now}
	inc := bson.M{"total_sent": 1}
	if windowExpired(entry, now) {
		set["sent_last_minute"] = 1
	} else {
		inc["sent_last_minute"] = 1
	}
	return bson.M{"$set": set, "$inc": inc}
}

// failedUpdate stamps last_sent on insert so failure-only rows age out
// through Prune like any other.
func failedUpdate(now time.Time) bson.M {
	return bson.M{
		"$inc":         bson.M{"failed_attempts": 1},
		"$setOnInsert": bson.M{"last_sent": now, "sent_last_minute": 0, "total_sent": 0},
	}
}
