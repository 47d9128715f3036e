package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"bizdesk/api"
	"bizdesk/models"
	"bizdesk/utils"

	"github.com/rs/zerolog"
)

var (
	ErrPartyNotFound = errors.New("party not found")
	ErrNoPhoneNumber = errors.New("no phone number")
	ErrUnknownEvent  = errors.New("unknown message event")
	ErrRateLimited   = errors.New("message limit reached for this number, try again later")
)

type PartyStore interface {
	FindParty(ctx context.Context, adminID, partyID string) (*models.Party, error)
}

// TemplateStore returns nil, nil when the administrator has no override.
type TemplateStore interface {
	FindTemplate(ctx context.Context, adminID string, event models.MessageEvent) (*models.MessageTemplate, error)
}

type MessageLimiter interface {
	Allow(ctx context.Context, phone string) error
	RecordSent(ctx context.Context, phone string) error
	RecordFailed(ctx context.Context, phone string) error
}

type Archiver interface {
	Put(ctx context.Context, adminID, fileName, contentType string, data []byte) (string, error)
}

type NotificationRequest struct {
	PartyID    string
	Event      models.MessageEvent
	Template   string
	Data       utils.TemplateData
	Attachment *api.Attachment
}

type NotificationResult struct {
	Phone         string `json:"phone"`
	Message       string `json:"message"`
	MessageID     string `json:"message_id,omitempty"`
	AttachmentURL string `json:"attachment_url,omitempty"`
}

// NotificationService renders a party's message and hands it to the
// WhatsApp bridge. Failures are terminal; callers report them as is.
type NotificationService struct {
	Parties    PartyStore
	Templates  TemplateStore
	Limiter    MessageLimiter
	Bridge     api.Bridge
	Archive    Archiver
	Normalizer utils.PhoneNormalizer
	Log        zerolog.Logger
}

func (s *NotificationService) Send(ctx context.Context, profile *models.Profile, req NotificationRequest) (*NotificationResult, error) {
	party, err := s.Parties.FindParty(ctx, profile.ScopingID, req.PartyID)
	if err != nil {
		return nil, err
	}

	phone, ok := s.Normalizer.Normalize(party.ContactNumber())
	if !ok {
		return nil, ErrNoPhoneNumber
	}

	body, err := s.templateBody(ctx, profile.ScopingID, req)
	if err != nil {
		return nil, err
	}
	message := utils.RenderTemplate(body, withPartyDefaults(req.Data, party))

	if s.Limiter != nil {
		if err := s.Limiter.Allow(ctx, phone); err != nil {
			return nil, err
		}
	}

	result := &NotificationResult{Phone: phone, Message: message}

	var sent *api.SendResult
	if req.Attachment != nil {
		file := *req.Attachment
		data, contentType, err := utils.ShrinkImage(file.Data, file.ContentType)
		if err != nil {
			return nil, err
		}
		file.Data, file.ContentType = data, contentType

		if s.Archive != nil {
			url, err := s.Archive.Put(ctx, profile.ScopingID, file.FileName, file.ContentType, file.Data)
			if err != nil {
				s.Log.Warn().Err(err).Str("party_id", party.ID.Hex()).Msg("attachment archive failed")
			} else {
				result.AttachmentURL = url
			}
		}
		sent, err = s.Bridge.SendMedia(ctx, phone, message, file)
	} else {
		sent, err = s.Bridge.SendText(ctx, phone, message)
	}

	if err != nil {
		if s.Limiter != nil {
			if lerr := s.Limiter.RecordFailed(ctx, phone); lerr != nil {
				s.Log.Warn().Err(lerr).Msg("error updating message log")
			}
		}
		return nil, fmt.Errorf("send whatsapp message: %w", err)
	}
	if s.Limiter != nil {
		if lerr := s.Limiter.RecordSent(ctx, phone); lerr != nil {
			s.Log.Warn().Err(lerr).Msg("error updating message log")
		}
	}

	result.MessageID = sent.MessageID
	s.Log.Info().
		Str("party_id", party.ID.Hex()).
		Str("phone", phone).
		Str("event", string(req.Event)).
		Str("sent_by", profile.ID).
		Msg("whatsapp message sent")
	return result, nil
}

func (s *NotificationService) templateBody(ctx context.Context, adminID string, req NotificationRequest) (string, error) {
	if req.Template != "" {
		return req.Template, nil
	}
	fallback, ok := models.DefaultTemplate(req.Event)
	if !ok {
		return "", ErrUnknownEvent
	}
	if s.Templates == nil {
		return fallback, nil
	}
	tmpl, err := s.Templates.FindTemplate(ctx, adminID, req.Event)
	if err != nil {
		return "", err
	}
	if tmpl == nil || !tmpl.IsActive || tmpl.Content == "" {
		return fallback, nil
	}
	return tmpl.Content, nil
}

func withPartyDefaults(data utils.TemplateData, party *models.Party) utils.TemplateData {
	out := make(utils.TemplateData, len(data)+2)
	for k, v := range data {
		out[k] = v
	}
	if out["partyName"] == "" {
		out["partyName"] = party.Name
	}
	if out["partyBalance"] == "" {
		out["partyBalance"] = strconv.FormatFloat(party.Balance, 'f', -1, 64)
	}
	return out
}
