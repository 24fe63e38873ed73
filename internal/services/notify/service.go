package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const (
	TypeContentAssigned      = "content_assigned"
	TypeContentStatusUpdated = "content_status_updated"
)

// Payload is the wire format the notifier service accepts.
type Payload struct {
	Type           string `json:"type"`
	RecipientEmail string `json:"recipientEmail"`
	RecipientName  string `json:"recipientName"`
	ContentType    string `json:"contentType"`
	Status         string `json:"status,omitempty"`
	AssignerName   string `json:"assignerName,omitempty"`
	ReviewerName   string `json:"reviewerName,omitempty"`
}

// Service posts notification payloads to the notifier binary over HTTP.
type Service struct {
	client *http.Client
	url    string
	logger *zap.Logger
}

func NewService(client *http.Client, url string, logger *zap.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is nil")
	}
	if url == "" {
		return nil, fmt.Errorf("notifier url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		client: client,
		url:    url,
		logger: logger,
	}, nil
}

func (s *Service) ContentAssigned(ctx context.Context, recipientEmail, recipientName, contentType, assignerName string) error {
	return s.send(ctx, Payload{
		Type:           TypeContentAssigned,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		ContentType:    contentType,
		AssignerName:   assignerName,
	})
}

func (s *Service) ContentStatusUpdated(ctx context.Context, recipientEmail, recipientName, contentType, status, reviewerName string) error {
	return s.send(ctx, Payload{
		Type:           TypeContentStatusUpdated,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		ContentType:    contentType,
		Status:         status,
		ReviewerName:   reviewerName,
	})
}

func (s *Service) send(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notifier returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	s.logger.Debug("notification delivered",
		zap.String("type", payload.Type),
		zap.String("recipient", payload.RecipientEmail),
	)

	return nil
}
