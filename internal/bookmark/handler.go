package bookmark

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/pkg/utilities"
)

// Handler contains dependencies for handling bookmark endpoints.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

// NewHandler constructs a new Handler.
func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type CreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Link        string  `json:"link"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Link, validation.Required, is.URL),
	)
}

type EditRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
}

func (r EditRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.Link, validation.NilOrNotEmpty, is.URL),
	)
}

// List returns the caller's bookmarks.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.IdentityID(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, auth.ErrUnauthorized.Error())
		return
	}
	out, err := h.svc.List(r.Context(), owner)
	if err != nil {
		h.writeServiceError(w, owner, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.IdentityID(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, auth.ErrUnauthorized.Error())
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid bookmark payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := req.Validate(); err != nil {
		utilities.WriteValidationError(w, err)
		return
	}
	b, err := h.svc.Create(r.Context(), owner, CreateInput(req))
	if err != nil {
		h.writeServiceError(w, owner, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	b, err := h.svc.Get(r.Context(), owner, id)
	if err != nil {
		h.writeServiceError(w, owner, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid bookmark payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := req.Validate(); err != nil {
		utilities.WriteValidationError(w, err)
		return
	}
	b, err := h.svc.Update(r.Context(), owner, id, EditInput(req))
	if err != nil {
		h.writeServiceError(w, owner, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), owner, id); err != nil {
		h.writeServiceError(w, owner, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ownerAndID(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	owner, ok := auth.IdentityID(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, auth.ErrUnauthorized.Error())
		return 0, 0, false
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		utilities.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, 0, false
	}
	return owner, id, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, owner int64, err error) {
	if errors.Is(err, auth.ErrNotFound) {
		utilities.WriteError(w, http.StatusNotFound, "bookmark not found")
		return
	}
	h.logger.Errorw("bookmark operation failed", "user_id", owner, "err", err)
	utilities.WriteError(w, http.StatusInternalServerError, "internal error")
}
