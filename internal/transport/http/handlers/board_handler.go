package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/model"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/board"
	"github.com/tiagocodinha/StagelinkApproval/internal/transport/http/dto"
)

type BoardService interface {
	Folders(ctx context.Context, actor auth.Identity, sel board.FolderSelection) (board.FoldersView, error)
	Calendar(ctx context.Context, actor auth.Identity) ([]board.DateBucket, error)
	ByType(ctx context.Context, actor auth.Identity) ([]board.TypeBucket, error)
	Clients(ctx context.Context, actor auth.Identity) ([]model.Profile, error)
	ClientEmails(ctx context.Context, actor auth.Identity) ([]string, error)
}

type BoardHandler struct {
	service BoardService
	logger  *zap.Logger
}

func NewBoardHandler(service BoardService, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{service: service, logger: logger}
}

// Folders serves the archive with optional ?client=&month= navigation;
// the resolved selection comes back in the body.
func (h *BoardHandler) Folders(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	sel := board.FolderSelection{
		Client: r.URL.Query().Get("client"),
		Month:  r.URL.Query().Get("month"),
	}

	view, err := h.service.Folders(r.Context(), identity, sel)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FoldersFromView(view))
}

func (h *BoardHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	buckets, err := h.service.Calendar(r.Context(), identity)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CalendarFromView(buckets))
}

func (h *BoardHandler) Types(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	buckets, err := h.service.ByType(r.Context(), identity)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TypesFromView(buckets))
}

func (h *BoardHandler) Clients(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	profiles, err := h.service.Clients(r.Context(), identity)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientsFromProfiles(profiles))
}

func (h *BoardHandler) ClientEmails(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	emails, err := h.service.ClientEmails(r.Context(), identity)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientEmailsResponse{Emails: emails})
}
