package services

import (
	"context"
	"fmt"
	"time"

	"bizdesk/api"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

type AlertSender interface {
	SendEmail(to, subject, body string) error
}

type MessageLogPruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// BridgeWatch keeps an eye on the WhatsApp link: it polls bridge status,
// mails an alert when the link drops, and prunes stale message counters.
type BridgeWatch struct {
	Bridge      api.Bridge
	Mailer      AlertSender
	AlertEmail  string
	Pruner      MessageLogPruner
	OnStatus    func(connected bool)
	Log         zerolog.Logger
	LogRetained time.Duration
}

// Subscribe hooks the alerting handlers into hub.
func (w *BridgeWatch) Subscribe(hub *api.EventHub) {
	hub.Subscribe(api.EventDisconnected, w.alert)
	hub.Subscribe(api.EventAuthFailure, w.alert)
	hub.Subscribe(api.EventReady, func(api.Event) { w.setStatus(true) })
	hub.Subscribe(api.EventDisconnected, func(api.Event) { w.setStatus(false) })
}

// Schedule registers the periodic jobs on s.
func (w *BridgeWatch) Schedule(s *gocron.Scheduler) error {
	if _, err := s.Every(1).Minute().Do(w.CheckStatus); err != nil {
		return err
	}
	if w.Pruner != nil {
		if _, err := s.Every(1).Day().At("03:00").Do(w.PruneMessageLogs); err != nil {
			return err
		}
	}
	return nil
}

func (w *BridgeWatch) CheckStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, err := w.Bridge.Status(ctx)
	if err != nil {
		w.Log.Warn().Err(err).Msg("bridge status poll failed")
		w.setStatus(false)
		return
	}
	w.setStatus(status.Connected)
}

func (w *BridgeWatch) PruneMessageLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	retained := w.LogRetained
	if retained == 0 {
		retained = 30 * 24 * time.Hour
	}
	n, err := w.Pruner.Prune(ctx, time.Now().Add(-retained))
	if err != nil {
		w.Log.Error().Err(err).Msg("message log prune failed")
		return
	}
	w.Log.Info().Int64("deleted", n).Msg("message log pruned")
}

func (w *BridgeWatch) setStatus(connected bool) {
	if w.OnStatus != nil {
		w.OnStatus(connected)
	}
}

func (w *BridgeWatch) alert(e api.Event) {
	w.Log.Warn().Str("event", string(e.Type)).Str("reason", e.Reason).Msg("whatsapp link problem")
	if w.Mailer == nil || w.AlertEmail == "" {
		return
	}
	subject := fmt.Sprintf("WhatsApp bridge: %s", e.Type)
	body := fmt.Sprintf("The WhatsApp bridge reported %q at %s.\nReason: %s\n\nOpen the WhatsApp settings page and re-link the device if needed.",
		e.Type, e.ReceivedAt.Format(time.RFC1123), e.Reason)
	if err := w.Mailer.SendEmail(w.AlertEmail, subject, body); err != nil {
		w.Log.Error().Err(err).Msg("alert email failed")
	}
}
