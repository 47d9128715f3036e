package controllers

import (
	"context"

	"bizdesk/api"
	"bizdesk/middleware"
	"bizdesk/models"
	"bizdesk/services"
	"bizdesk/utils"

	"github.com/rs/zerolog"
)

type Authenticator interface {
	middleware.SessionResolver
	Authenticate(ctx context.Context, login, password string) (*models.Profile, error)
}

type Notifier interface {
	Send(ctx context.Context, profile *models.Profile, req services.NotificationRequest) (*services.NotificationResult, error)
}

// PartyManager reads and writes parties. Every method takes the owning
// administrator id and never touches another administrator's rows.
type PartyManager interface {
	services.PartyStore
	ListParties(ctx context.Context, adminID, partyType string) ([]models.Party, error)
	CreateParty(ctx context.Context, party *models.Party) error
	UpdateParty(ctx context.Context, adminID, partyID string, fields map[string]interface{}) error
}

type SessionRecorder interface {
	Record(ctx context.Context, s models.Session) error
}

// Handler carries the collaborators the route handlers need. Staff and
// template collections are reached through config, as elsewhere in the app.
type Handler struct {
	Auth     Authenticator
	Sessions SessionRecorder
	Signer   *utils.TokenSigner
	Cookies  middleware.CookieOptions
	Log      zerolog.Logger

	// BearerTokens returns a token from Login and accepts it on requests.
	BearerTokens bool

	Parties PartyManager

	Bridge      api.Bridge
	Events      *api.EventHub
	Notifier    Notifier
	BridgeToken string
}
