package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/pkg/utilities"
)

// Handler exposes the profile endpoints. Every route sits behind the guard.
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// EditRequest is the body of both edit endpoints.
type EditRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

func (r EditRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.FirstName, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
	)
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, auth.ErrUnauthorized.Error())
		return
	}
	utilities.WriteJSON(w, http.StatusOK, u)
}

// EditSelf edits the authenticated user.
func (h *Handler) EditSelf(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityID(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, auth.ErrUnauthorized.Error())
		return
	}
	h.edit(w, r, id, id)
}

// EditByID edits the user named in the path, which must be the caller.
func (h *Handler) EditByID(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityID(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, auth.ErrUnauthorized.Error())
		return
	}
	target, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.edit(w, r, id, target)
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request, identityID, targetID int64) {
	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid edit payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		req.Email = &email
	}
	if err := req.Validate(); err != nil {
		utilities.WriteValidationError(w, err)
		return
	}
	u, err := h.svc.Edit(r.Context(), identityID, targetID, EditInput(req))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			utilities.WriteError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, auth.ErrDuplicateEmail):
			utilities.WriteError(w, http.StatusBadRequest, "credentials taken")
		default:
			h.logger.Errorw("edit user failed", "user_id", identityID, "err", err)
			utilities.WriteError(w, http.StatusInternalServerError, "edit failed")
		}
		return
	}
	utilities.WriteJSON(w, http.StatusOK, u)
}
