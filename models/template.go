package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageEvent string

const (
	EventSale      MessageEvent = "sale"
	EventPaymentIn MessageEvent = "payment_in"
	EventInvoice   MessageEvent = "invoice"
	EventReminder  MessageEvent = "reminder"
)

var defaultTemplates = map[MessageEvent]string{
	EventSale:      "Dear {Party_Name}, thank you for your purchase on {Txn_Date}. Invoice {Invoice_No}, amount {Invoice_Amount}. Current balance: {Party_Balance}. - {Firm_Name}",
	EventPaymentIn: "Dear {Party_Name}, we received your payment of {Invoice_Amount} on {Txn_Date}. Remaining balance: {Party_Balance}. - {Firm_Name}",
	EventInvoice:   "Dear {Party_Name}, please find invoice {Invoice_No} dated {Txn_Date} for {Invoice_Amount}, due {Due_Date}. - {Firm_Name}",
	EventReminder:  "Dear {Party_Name}, a friendly reminder that your balance of {Party_Balance} is due {Due_Date}. - {Firm_Name}",
}

// DefaultTemplate returns the built-in body for an event, and false for
// unknown events.
func DefaultTemplate(event MessageEvent) (string, bool) {
	body, ok := defaultTemplates[event]
	return body, ok
}

// MessageTemplate is an administrator's override of a default template.
type MessageTemplate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AdminID   string             `bson:"admin_id" json:"admin_id"`
	Event     MessageEvent       `bson:"event" json:"event"`
	Content   string             `bson:"content" json:"content"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	UpdatedBy string             `bson:"updated_by" json:"updated_by"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
