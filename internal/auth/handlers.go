package auth

import (
	"encoding/json"
	"net/http"

	"github.com/InkwellLabs/Inkwell-Backend/internal/apierr"
	"github.com/InkwellLabs/Inkwell-Backend/internal/envelope"
	"github.com/InkwellLabs/Inkwell-Backend/internal/utils"
	"github.com/rs/zerolog/log"
)

// Handlers exposes the auth endpoints over the service.
type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// userRow shapes a user for the envelope. The password hash never appears
// here.
func userRow(u *User) envelope.Row {
	return envelope.Row{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"active":     u.Active,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		envelope.Error(w, apierr.ErrValidationFailed.WithMessage("Invalid request body"))
		return
	}
	if input.Email == "" || input.Password == "" {
		envelope.Error(w, apierr.ErrValidationFailed.WithMessage("Email and password are required"))
		return
	}

	user, token, err := h.svc.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		log.Warn().Str("op", "login").Msg("login failed")
		envelope.Error(w, err)
		return
	}

	log.Info().Str("op", "login").Str("user_id", user.ID).Msg("session issued")
	envelope.Success(w, http.StatusOK, envelope.ToResource(userRow(user)), envelope.Meta{"token": token})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		envelope.Error(w, apierr.ErrMissingAuthHeader)
		return
	}

	user, err := h.svc.Me(r.Context(), ident.UserID)
	if err != nil {
		envelope.Error(w, err)
		return
	}
	envelope.Resource(w, http.StatusOK, userRow(user))
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		envelope.Error(w, apierr.ErrMissingAuthHeader)
		return
	}

	force := r.URL.Query().Get("force") == "true"
	if r.Body != nil && r.ContentLength > 0 {
		var input struct {
			Force bool `json:"force"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err == nil {
			force = force || input.Force
		}
	}

	token, err := h.svc.Refresh(r.Context(), ident.UserID, force)
	if err != nil {
		envelope.Error(w, err)
		return
	}
	envelope.Success(w, http.StatusOK, envelope.Row{"token": token}, nil)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		envelope.Error(w, apierr.ErrMissingAuthHeader)
		return
	}

	if err := h.svc.Logout(r.Context(), ident.UserID); err != nil {
		envelope.Error(w, err)
		return
	}
	log.Info().Str("op", "logout").Str("user_id", ident.UserID).Msg("session revoked")
	envelope.Success(w, http.StatusOK, envelope.Row{}, nil)
}

// CreateUser provisions a new user. Mounted behind RequireAdmin.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		envelope.Error(w, apierr.ErrValidationFailed.WithMessage("Invalid request body"))
		return
	}

	user, err := h.svc.ProvisionUser(r.Context(), input.Name, input.Email, input.Password, input.Role)
	if err != nil {
		envelope.Error(w, err)
		return
	}
	envelope.Resource(w, http.StatusCreated, userRow(user))
}

func (h *Handlers) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		envelope.Error(w, apierr.ErrMissingAuthHeader)
		return
	}

	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		envelope.Error(w, apierr.ErrValidationFailed.WithMessage("Current and new password are required"))
		return
	}

	if err := h.svc.ChangePassword(r.Context(), ident.UserID, input.CurrentPassword, input.NewPassword); err != nil {
		envelope.Error(w, err)
		return
	}
	envelope.Success(w, http.StatusOK, envelope.Row{}, nil)
}
