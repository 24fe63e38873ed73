package notifierapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/config"
	"github.com/tiagocodinha/StagelinkApproval/internal/pkg/validate"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/notify"
)

const shutdownTimeout = 10 * time.Second

// App is the notifier process: a small http endpoint that turns
// notification payloads into emails.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	mailer Mailer
	server *http.Server
}

func New(cfg config.Config, logger *zap.Logger, mailer Mailer) (*App, error) {
	if mailer == nil {
		return nil, fmt.Errorf("mailer is nil")
	}

	app := &App{
		cfg:    cfg,
		logger: logger,
		mailer: mailer,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Post("/", app.handleNotify)

	app.server = &http.Server{
		Addr:         cfg.Notifier.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return app, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("notifier listening", zap.String("addr", a.cfg.Notifier.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

func (a *App) handleNotify(w http.ResponseWriter, r *http.Request) {
	var payload notify.Payload

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json payload"})
		return
	}

	if !validate.Email(payload.RecipientEmail) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "recipientEmail is invalid"})
		return
	}

	subject, body, err := renderEmail(payload, a.cfg.Notifier.AppURL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := a.mailer.Send(payload.RecipientEmail, payload.RecipientName, subject, body); err != nil {
		a.logger.Error("mail delivery failed",
			zap.String("type", payload.Type),
			zap.String("recipient", payload.RecipientEmail),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "mail delivery failed"})
		return
	}

	a.logger.Info("notification sent",
		zap.String("type", payload.Type),
		zap.String("recipient", payload.RecipientEmail),
	)

	writeJSON(w, http.StatusOK, map[string]string{"message": "notification sent"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
