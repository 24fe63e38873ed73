package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/content"
	httperrors "github.com/tiagocodinha/StagelinkApproval/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: httperrors.CodeValidation, Message: message})
}

func writeUnauthorized(w http.ResponseWriter) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: httperrors.CodeUnauthorized, Message: "authentication required"})
}

func writeForbidden(w http.ResponseWriter) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: httperrors.CodeForbidden, Message: "not allowed"})
}

func writeNotFound(w http.ResponseWriter, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: httperrors.CodeNotFound, Message: message})
}

func writeConflict(w http.ResponseWriter, message string) {
	httperrors.Write(w, http.StatusConflict, httperrors.APIError{Code: httperrors.CodeStaleStatus, Message: message})
}

func writeInternal(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Error("request failed", zap.Error(err))
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: httperrors.CodeInternal, Message: "internal error"})
}

// writeServiceError maps the shared service sentinels; anything
// unmapped is a 500.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		writeUnauthorized(w)
	case errors.Is(err, auth.ErrForbidden):
		writeForbidden(w)
	case errors.Is(err, content.ErrValidation):
		writeBadRequest(w, err.Error())
	case errors.Is(err, content.ErrNotFound):
		writeNotFound(w, "content item not found")
	case errors.Is(err, content.ErrStaleStatus):
		writeConflict(w, "content item already decided")
	default:
		writeInternal(w, logger, err)
	}
}

func identityOrFail(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return auth.Identity{}, false
	}
	return identity, true
}
