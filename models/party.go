package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Party is a customer or supplier owned by one administrator.
type Party struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdminID    string             `bson:"admin_id" json:"admin_id"`
	Name       string             `bson:"name" json:"name" binding:"required"`
	Type       string             `bson:"type" json:"type"`
	WhatsAppNo string             `bson:"whatsapp_no,omitempty" json:"whatsapp_no,omitempty"`
	MobileNo   string             `bson:"mobile_no,omitempty" json:"mobile_no,omitempty"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	Balance    float64            `bson:"balance" json:"balance"`
	CreatedBy  string             `bson:"created_by" json:"created_by"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// ContactNumber prefers the WhatsApp number over the mobile one.
func (p *Party) ContactNumber() string {
	if p.WhatsAppNo != "" {
		return p.WhatsAppNo
	}
	return p.MobileNo
}
