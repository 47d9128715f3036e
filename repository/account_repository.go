package repository

import (
	"context"
	"errors"

	"bizdesk/models"
	"bizdesk/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AccountRepository is the Mongo-backed services.AccountStore.
type AccountRepository struct {
	superAdmins *mongo.Collection
	staff       *mongo.Collection
}

func NewAccountRepository(superAdmins, staff *mongo.Collection) *AccountRepository {
	return &AccountRepository{superAdmins: superAdmins, staff: staff}
}

var _ services.AccountStore = (*AccountRepository)(nil)

func (r *AccountRepository) FindActiveSuperAdminByUsername(ctx context.Context, username string) (*models.SuperAdmin, error) {
	var admin models.SuperAdmin
	if err := findOne(ctx, r.superAdmins, bson.M{"username": username, "is_active": true}, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AccountRepository) FindActiveStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var staff models.Staff
	if err := findOne(ctx, r.staff, bson.M{"email": email, "is_active": true}, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *AccountRepository) FindActiveSuperAdminByID(ctx context.Context, id string) (*models.SuperAdmin, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrAccountNotFound
	}
	var admin models.SuperAdmin
	if err := findOne(ctx, r.superAdmins, bson.M{"_id": objID, "is_active": true}, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AccountRepository) FindActiveStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrAccountNotFound
	}
	var staff models.Staff
	if err := findOne(ctx, r.staff, bson.M{"_id": objID, "is_active": true}, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return services.ErrAccountNotFound
	}
	return err
}
