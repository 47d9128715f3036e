package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client                    *mongo.Client
	SuperAdminCollection      *mongo.Collection
	StaffCollection           *mongo.Collection
	SessionCollection         *mongo.Collection
	PartyCollection           *mongo.Collection
	MessageTemplateCollection *mongo.Collection
	MessageLogCollection      *mongo.Collection
)

func ConnectDatabase(cfg *Config, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	if err = client.Ping(ctx, nil); err != nil {
		return err
	}

	db := client.Database(cfg.MongoDB)
	Client = client
	SuperAdminCollection = db.Collection("superadmins")
	StaffCollection = db.Collection("staff")
	SessionCollection = db.Collection("sessions")
	PartyCollection = db.Collection("parties")
	MessageTemplateCollection = db.Collection("messagetemplates")
	MessageLogCollection = db.Collection("messagelogs")

	if err = ensureIndexes(ctx); err != nil {
		return err
	}

	log.Info().Str("db", cfg.MongoDB).Msg("connected to MongoDB")
	return nil
}

// Login names are unique per collection, never across them.
func ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := SuperAdminCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}}, Options: unique,
	}); err != nil {
		return err
	}
	if _, err := StaffCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	}); err != nil {
		return err
	}
	if _, err := MessageTemplateCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "admin_id", Value: 1}, {Key: "event", Value: 1}}, Options: unique,
	}); err != nil {
		return err
	}
	_, err := MessageLogCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "phone", Value: 1}}, Options: unique,
	})
	return err
}

func DisconnectDatabase() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = Client.Disconnect(ctx)
}
