package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-field-sync/internal/app"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeAuthFailure(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	if err := h.services.Validator.Validate(ctx, request); err != nil {
		log.Err(err).Msg("invalid data provided")
		writeAuthFailure(w, err.Error(), http.StatusBadRequest)
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, request)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			writeAuthFailure(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		case errors.Is(err, store.ErrLoginAlreadyExists):
			log.Err(err).Msg("login already exists")
			writeAuthFailure(w, app.MsgLoginAlreadyExists, http.StatusConflict)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user registration")
			writeAuthFailure(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	h.issueToken(w, r, registeredUser)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeAuthFailure(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, request)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			writeAuthFailure(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		case errors.Is(err, store.ErrNoUserWasFound) || errors.Is(err, service.ErrWrongPassword):
			log.Err(err).Msg("no user was found/wrong password")
			writeAuthFailure(w, app.MsgInvalidLoginPassword, http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user login")
			writeAuthFailure(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	log.Debug().Int64("id", foundUser.UserID).Str("login", foundUser.Login).Msg("user successfully logged in")

	h.issueToken(w, r, foundUser)
}

// refresh exchanges the bearer token of the request, which may have expired
// within the refresh window, for a new one.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	tokenString, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		log.Err(err).Msg("refresh without bearer token")
		writeAuthFailure(w, ErrInvalidAuthorizationHeader.Error(), http.StatusUnauthorized)
		return
	}

	token, err := h.services.AuthService.RefreshToken(r.Context(), tokenString)
	if err != nil {
		log.Err(err).Msg("token refresh refused")
		writeAuthFailure(w, app.MsgTokenCannotBeRefreshed, http.StatusUnauthorized)
		return
	}

	writeToken(w, token)
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request, user models.User) {
	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		logger.FromRequest(r).Err(err).Msg("creation of token failed")
		writeAuthFailure(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeToken(w, token)
}

// writeToken answers with the token both in the body and in the
// Authorization header.
func writeToken(w http.ResponseWriter, token models.Token) {
	response := models.AuthResponse{
		Succeeded: true,
		Token:     token.SignedString,
		ExpiresAt: token.ExpiresAtTime().UTC(),
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, response, http.StatusOK)
}

func writeAuthFailure(w http.ResponseWriter, message string, status int) {
	utils.WriteJSON(w, models.AuthResponse{Succeeded: false, Message: message}, status)
}
