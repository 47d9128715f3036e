package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrBridgeUnavailable = errors.New("whatsapp bridge unavailable")

// BridgeStatus is what the desktop bridge reports about its WhatsApp link.
type BridgeStatus struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
	Phone     string `json:"phone,omitempty"`
}

type SendResult struct {
	MessageID string `json:"message_id"`
}

type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Bridge is the request/response half of the messaging bridge.
type Bridge interface {
	Status(ctx context.Context) (*BridgeStatus, error)
	QRCode(ctx context.Context) (string, error)
	SendText(ctx context.Context, phone, message string) (*SendResult, error)
	SendMedia(ctx context.Context, phone, caption string, file Attachment) (*SendResult, error)
}

// WhatsAppClient talks to the bridge over its local HTTP API. Calls are
// single-shot; nothing is retried here.
type WhatsAppClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewWhatsAppClient(baseURL, token string) *WhatsAppClient {
	return &WhatsAppClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

var _ Bridge = (*WhatsAppClient)(nil)

func (w *WhatsAppClient) Status(ctx context.Context) (*BridgeStatus, error) {
	var status BridgeStatus
	if err := w.do(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (w *WhatsAppClient) QRCode(ctx context.Context) (string, error) {
	var out struct {
		QR string `json:"qr"`
	}
	if err := w.do(ctx, http.MethodGet, "/qr", nil, &out); err != nil {
		return "", err
	}
	return out.QR, nil
}

func (w *WhatsAppClient) SendText(ctx context.Context, phone, message string) (*SendResult, error) {
	payload := map[string]string{
		"phone":   phone,
		"message": message,
	}
	var res SendResult
	if err := w.do(ctx, http.MethodPost, "/send", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (w *WhatsAppClient) SendMedia(ctx context.Context, phone, caption string, file Attachment) (*SendResult, error) {
	payload := map[string]string{
		"phone":     phone,
		"message":   caption,
		"file_name": file.FileName,
		"mime_type": file.ContentType,
		"data":      base64.StdEncoding.EncodeToString(file.Data),
	}
	var res SendResult
	if err := w.do(ctx, http.MethodPost, "/send-media", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (w *WhatsAppClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, w.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			return fmt.Errorf("bridge %s %s: %d %s", method, path, resp.StatusCode, e.Error)
		}
		return fmt.Errorf("bridge %s %s: non-200 response %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("bridge %s %s: decode response: %w", method, path, err)
	}
	return nil
}
