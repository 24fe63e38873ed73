package notifierapp

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/config"
)

type stubMailer struct {
	sendErr    error
	to         string
	subject    string
	body       string
	deliveries int
}

func (m *stubMailer) Send(to, _, subject, htmlBody string) error {
	m.deliveries++
	m.to = to
	m.subject = subject
	m.body = htmlBody
	return m.sendErr
}

func newTestApp(t *testing.T, mailer *stubMailer) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Notifier.AppURL = "https://app.stagelink.pt"

	app, err := New(cfg, zap.NewNop(), mailer)
	if err != nil {
		t.Fatalf("create notifier app: %v", err)
	}
	return app
}

func TestHandleNotifyAssigned(t *testing.T) {
	mailer := &stubMailer{}
	app := newTestApp(t, mailer)

	body := `{"type":"content_assigned","recipientEmail":"client@example.com","recipientName":"Client One","contentType":"Post","assignerName":"Stagelink"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if mailer.deliveries != 1 || mailer.to != "client@example.com" {
		t.Fatalf("mailer state %+v", mailer)
	}
	if !strings.Contains(mailer.subject, "Post") {
		t.Fatalf("subject %q must name the content type", mailer.subject)
	}
	if !strings.Contains(mailer.body, "https://app.stagelink.pt") {
		t.Fatalf("body must link the dashboard")
	}
}

func TestHandleNotifyStatusUpdated(t *testing.T) {
	mailer := &stubMailer{}
	app := newTestApp(t, mailer)

	body := `{"type":"content_status_updated","recipientEmail":"geral@stagelink.pt","recipientName":"Stagelink","contentType":"Reel","status":"Approved","reviewerName":"Client One"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(mailer.subject, "Approved") {
		t.Fatalf("subject %q must carry the status", mailer.subject)
	}
	if !strings.Contains(mailer.body, "Client One") {
		t.Fatalf("body must name the reviewer")
	}
}

func TestHandleNotifyRejectsBadPayload(t *testing.T) {
	mailer := &stubMailer{}
	app := newTestApp(t, mailer)

	tests := map[string]string{
		"invalid json": `{`,
		"bad email":    `{"type":"content_assigned","recipientEmail":"nope","recipientName":"A","contentType":"Post"}`,
		"unknown type": `{"type":"content_deleted","recipientEmail":"a@b.co","recipientName":"A","contentType":"Post"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			rec := httptest.NewRecorder()
			app.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400", rec.Code)
			}
		})
	}

	if mailer.deliveries != 0 {
		t.Fatalf("no mail must leave on bad payloads, sent %d", mailer.deliveries)
	}
}

func TestHandleNotifyMailFailure(t *testing.T) {
	mailer := &stubMailer{sendErr: errors.New("smtp down")}
	app := newTestApp(t, mailer)

	body := `{"type":"content_assigned","recipientEmail":"a@b.co","recipientName":"A","contentType":"Post","assignerName":"S"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Fatalf("error body missing: %s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, &stubMailer{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
}
