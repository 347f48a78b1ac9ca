package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hornhub/hornhub-service/internal/session"
	authTypes "github.com/hornhub/hornhub-service/internal/types/auth"
	"github.com/hornhub/hornhub-service/internal/utils/jwt"
	"github.com/hornhub/hornhub-service/internal/utils/response"
)

// Login exchanges an access code for the matching profile and a token
// @Summary Log in with an access code
// @Description Resolve the access code against the profile directory and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body authTypes.LoginRequest true "Access code"
// @Success 200 {object} authTypes.LoginResponse "Authenticated"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unknown access code"
// @Router /login [post]
func Login(sessions *session.Store, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var loginReq authTypes.LoginRequest

		err := json.NewDecoder(r.Body).Decode(&loginReq)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("request body cannot be empty")))
			return
		} else if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		validate := validator.New()
		if err := validate.Struct(loginReq); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		profile, err := sessions.Login(r.Context(), loginReq.AccessCode)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to open session")))
			return
		}
		if profile == nil {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("invalid access code")))
			return
		}

		token, err := jwt.CreateToken(profile.ID, jwtSecret)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to generate token")))
			return
		}
		slog.Info("User logged in", slog.String("user_id", profile.ID))

		response.WriteJSON(w, http.StatusOK, authTypes.LoginResponse{
			Profile: *profile,
			Token:   token,
		})
	}
}

// Logout clears the persisted session
// @Summary Log out
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} response.Response "Logged out"
// @Router /logout [post]
func Logout(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Logout(r.Context()); err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to log out")))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Logged out", nil))
	}
}

// Me returns the currently authenticated profile
// @Summary Get the current profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} types.Profile "Current profile"
// @Failure 401 {object} response.Response "No active session"
// @Router /me [get]
func Me(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := sessions.CurrentUser(r.Context())
		if current == nil {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("not authenticated")))
			return
		}

		response.WriteJSON(w, http.StatusOK, current)
	}
}
