// Command seed provisions the first superadmin account.
package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"time"

	"bizdesk/config"
	"bizdesk/models"
	"bizdesk/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	username := flag.String("username", os.Getenv("SEED_ADMIN_USERNAME"), "superadmin login name")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "superadmin password")
	name := flag.String("name", "Administrator", "display name")
	email := flag.String("email", "", "contact email")
	phone := flag.String("phone", "", "contact phone")
	flag.Parse()

	if *username == "" || *password == "" {
		stdlog.Fatal("username and password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	log := config.NewLogger(cfg)

	if err := config.ConnectDatabase(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer config.DisconnectDatabase()

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("error hashing password")
	}

	admin := models.SuperAdmin{
		ID:        primitive.NewObjectID(),
		Username:  *username,
		Password:  hash,
		Name:      *name,
		Email:     *email,
		Phone:     *phone,
		Role:      "owner",
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := config.SuperAdminCollection.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Fatal().Str("username", *username).Msg("superadmin already exists")
		}
		log.Fatal().Err(err).Msg("error creating superadmin")
	}
	log.Info().Str("id", admin.ID.Hex()).Str("username", admin.Username).Msg("superadmin created")
}
