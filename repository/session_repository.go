package repository

import (
	"context"

	"bizdesk/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SessionRepository writes login audit rows.
type SessionRepository struct {
	sessions *mongo.Collection
}

func NewSessionRepository(sessions *mongo.Collection) *SessionRepository {
	return &SessionRepository{sessions: sessions}
}

func (r *SessionRepository) Record(ctx context.Context, s models.Session) error {
	_, err := r.sessions.InsertOne(ctx, s)
	return err
}
