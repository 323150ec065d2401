package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/grims-squad/clan-backend/models"
	"github.com/grims-squad/clan-backend/services"
	"golang.org/x/time/rate"
)

type AuthHandler struct {
	authService  services.AuthService
	jwtSecret    []byte
	loginLimiter *rate.Limiter
}

func NewAuthHandler(authService services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   []byte(jwtSecret),
		// Brute-force damper on login attempts across the instance.
		loginLimiter: rate.NewLimiter(rate.Every(time.Second), 10),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.InGameName == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("in-game name and password are required"))
		return
	}

	profile, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.loginLimiter.Allow() {
		errorResponse(w, r, http.StatusTooManyRequests, "too many login attempts, try again shortly")
		return
	}

	var credentials models.Credentials
	if err := readJSON(w, r, &credentials); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if credentials.InGameName == "" || credentials.Password == "" {
		badRequestResponse(w, r, errors.New("in-game name and password are required"))
		return
	}

	profile, err := h.authService.Login(r.Context(), credentials)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	claims := jwt.MapClaims{
		"user_id": profile.ID,
		"role":    profile.Role,
		"name":    profile.InGameName,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.jwtSecret)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	response := jsonResponse{
		"token":   tokenString,
		"profile": profile,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
