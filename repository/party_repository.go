package repository

import (
	"context"
	"errors"
	"time"

	"bizdesk/models"
	"bizdesk/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PartyRepository reads parties and message templates, always scoped to
// one administrator.
type PartyRepository struct {
	parties   *mongo.Collection
	templates *mongo.Collection
}

func NewPartyRepository(parties, templates *mongo.Collection) *PartyRepository {
	return &PartyRepository{parties: parties, templates: templates}
}

var (
	_ services.PartyStore    = (*PartyRepository)(nil)
	_ services.TemplateStore = (*PartyRepository)(nil)
)

func (r *PartyRepository) FindParty(ctx context.Context, adminID, partyID string) (*models.Party, error) {
	objID, err := primitive.ObjectIDFromHex(partyID)
	if err != nil {
		return nil, services.ErrPartyNotFound
	}
	var party models.Party
	err = r.parties.FindOne(ctx, bson.M{"_id": objID, "admin_id": adminID}).Decode(&party)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrPartyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &party, nil
}

// ListParties returns the administrator's parties by name, optionally of
// one type.
func (r *PartyRepository) ListParties(ctx context.Context, adminID, partyType string) ([]models.Party, error) {
	cursor, err := r.parties.Find(ctx, partyFilter(adminID, partyType), options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	parties := []models.Party{}
	if err := cursor.All(ctx, &parties); err != nil {
		return nil, err
	}
	return parties, nil
}

func (r *PartyRepository) CreateParty(ctx context.Context, party *models.Party) error {
	_, err := r.parties.InsertOne(ctx, party)
	return err
}

// UpdateParty sets fields on one of the administrator's parties.
func (r *PartyRepository) UpdateParty(ctx context.Context, adminID, partyID string, fields map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(partyID)
	if err != nil {
		return services.ErrPartyNotFound
	}
	set := bson.M(fields)
	set["updated_at"] = time.Now()

	res, err := r.parties.UpdateOne(ctx, bson.M{"_id": objID, "admin_id": adminID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return services.ErrPartyNotFound
	}
	return nil
}

func partyFilter(adminID, partyType string) bson.M {
	filter := bson.M{"admin_id": adminID}
	if partyType != "" {
		filter["type"] = partyType
	}
	return filter
}

func (r *PartyRepository) FindTemplate(ctx context.Context, adminID string, event models.MessageEvent) (*models.MessageTemplate, error) {
	var tmpl models.MessageTemplate
	err := r.templates.FindOne(ctx, bson.M{"admin_id": adminID, "event": event}).Decode(&tmpl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}
