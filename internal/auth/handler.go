package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/pkg/utilities"
)

// Handler exposes HTTP endpoints for register and login.
type Handler struct {
	issuer *Issuer
	logger *zap.SugaredLogger
}

func NewHandler(issuer *Issuer, logger *zap.SugaredLogger) *Handler {
	return &Handler{issuer: issuer, logger: logger}
}

// RegisterRequest request body for the register endpoint.
type RegisterRequest struct {
	FirstName string  `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.By(maxBytes(72))),
	)
}

// maxBytes caps a string by encoded length; bcrypt reads at most 72 bytes.
func maxBytes(n int) validation.RuleFunc {
	return func(v interface{}) error {
		if s, ok := v.(string); ok && len(s) > n {
			return fmt.Errorf("must be at most %d bytes", n)
		}
		return nil
	}
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid register payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		utilities.WriteValidationError(w, err)
		return
	}
	pair, err := h.issuer.Register(r.Context(), RegisterInput{
		Credential: Credential{Email: req.Email, Password: req.Password},
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			utilities.WriteError(w, http.StatusBadRequest, "credentials taken")
			return
		}
		h.logger.Errorw("register failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "register failed")
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, pair)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		utilities.WriteValidationError(w, err)
		return
	}
	pair, err := h.issuer.Login(r.Context(), Credential{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.Debugw("login rejected")
			utilities.WriteError(w, http.StatusForbidden, "credentials incorrect")
			return
		}
		h.logger.Errorw("login failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "login failed")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, pair)
}
