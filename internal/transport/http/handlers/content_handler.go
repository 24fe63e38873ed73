package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
	"github.com/tiagocodinha/StagelinkApproval/internal/domain/model"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/board"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/content"
	"github.com/tiagocodinha/StagelinkApproval/internal/transport/http/dto"
)

type ContentService interface {
	Create(ctx context.Context, actor auth.Identity, input content.CreateInput) (model.ContentItem, error)
	GetByID(ctx context.Context, actor auth.Identity, id string) (model.ContentItem, error)
	UpdateStatus(ctx context.Context, actor auth.Identity, id string, status enums.ReviewStatus) (model.ContentItem, error)
}

type BoardLister interface {
	List(ctx context.Context, actor auth.Identity, filter board.Filter) (board.ListView, error)
}

type ContentHandler struct {
	service ContentService
	lists   BoardLister
	logger  *zap.Logger
}

func NewContentHandler(service ContentService, lists BoardLister, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{service: service, lists: lists, logger: logger}
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	filter := board.Filter{
		ContentType: r.URL.Query().Get("type"),
		ClientEmail: r.URL.Query().Get("client"),
	}

	view, err := h.lists.List(r.Context(), identity, filter)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContentListResponse{
		Pending: dto.ContentItemsFromModels(view.Pending),
		Decided: dto.ContentItemsFromModels(view.Decided),
	})
}

func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	var req dto.CreateContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json payload")
		return
	}

	scheduleDate, err := req.ParseScheduleDate()
	if err != nil {
		writeBadRequest(w, "schedule_date must be YYYY-MM-DD")
		return
	}

	input := content.CreateInput{
		Caption:      req.Caption,
		ContentType:  enums.ContentType(req.ContentType),
		MediaURL:     req.MediaURL,
		ScheduleDate: scheduleDate,
		AssignedTo:   req.AssignedTo,
	}
	if req.MediaKind != nil {
		kind := enums.MediaKind(*req.MediaKind)
		input.MediaKind = &kind
	}

	item, err := h.service.Create(r.Context(), identity, input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ContentItemFromModel(item))
}

func (h *ContentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetByID(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContentItemFromModel(item))
}

func (h *ContentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json payload")
		return
	}

	item, err := h.service.UpdateStatus(r.Context(), identity, chi.URLParam(r, "id"), enums.ReviewStatus(req.Status))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContentItemFromModel(item))
}
