package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/acquisition-app/acquisition/internal/platform/httpx"
)

// Client-facing messages. The credential failure text is deliberately the
// same for unknown email and wrong password.
const (
	msgRegistered         = "User registered successfully."
	msgSignedIn           = "Signed in successfully."
	msgSignedOut          = "Signed out successfully."
	msgEmailTaken         = "An account with that email already exists."
	msgInvalidCredentials = "Invalid email or password."
	msgUnexpected         = "Something went wrong. Please try again later."
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	issuer    *Issuer
	cookies   *Carrier
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, issuer *Issuer, cookies *Carrier) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		issuer:    issuer,
		cookies:   cookies,
		validator: NewValidator(),
	}
}

// MountRoutes registers auth routes on the provided router. Middleware given
// here wraps the signup route only, ahead of the handler.
func (h *Handler) MountRoutes(r chi.Router, signupGuard ...func(http.Handler) http.Handler) {
	r.With(signupGuard...).Post("/signup", h.handleSignUp)
	r.Post("/signin", h.handleSignIn)
	r.Post("/signout", h.handleSignOut)
}

type authResponse struct {
	Message string      `json:"message"`
	User    *PublicUser `json:"user"`
	Token   string      `json:"token"`
}

type validationResponse struct {
	Errors []FieldError `json:"errors"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var payload SignUpPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, validationResponse{Errors: []FieldError{
			{Path: "body", Message: "Invalid request body.", Code: "invalid"},
		}})
		return
	}
	payload.Normalize()
	if err := h.validator.Struct(payload); err != nil {
		errs := CollectFieldErrors(err)
		h.logger.Warn("signup validation failed", slog.Int("errors", len(errs)))
		httpx.JSON(w, http.StatusBadRequest, validationResponse{Errors: errs})
		return
	}

	user, err := h.service.SignUp(r.Context(), payload)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			h.logger.Info("signup rejected for existing email", slog.String("email", payload.Email))
			httpx.Error(w, http.StatusConflict, msgEmailTaken)
			return
		}
		h.unexpected(w, "signup", err)
		return
	}

	token, ok := h.establishSession(w, r, user, "signup")
	if !ok {
		return
	}

	h.logger.Info("user signed up",
		slog.Int64("user_id", user.ID), slog.String("email", user.Email))
	httpx.JSON(w, http.StatusCreated, authResponse{Message: msgRegistered, User: user, Token: token})
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var payload SignInPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, validationResponse{Errors: []FieldError{
			{Path: "body", Message: "Invalid request body.", Code: "invalid"},
		}})
		return
	}
	payload.Normalize()
	if err := h.validator.Struct(payload); err != nil {
		errs := CollectFieldErrors(err)
		h.logger.Warn("signin validation failed", slog.Int("errors", len(errs)))
		httpx.JSON(w, http.StatusBadRequest, validationResponse{Errors: errs})
		return
	}

	user, err := h.service.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.Info("signin rejected", slog.String("email", payload.Email))
			httpx.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		h.unexpected(w, "signin", err)
		return
	}

	token, ok := h.establishSession(w, r, user, "signin")
	if !ok {
		return
	}

	h.logger.Info("user signed in",
		slog.Int64("user_id", user.ID), slog.String("email", user.Email))
	httpx.JSON(w, http.StatusOK, authResponse{Message: msgSignedIn, User: user, Token: token})
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	var payload SignOutPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, validationResponse{Errors: []FieldError{
			{Path: "body", Message: "Invalid request body.", Code: "invalid"},
		}})
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, validationResponse{Errors: CollectFieldErrors(err)})
		return
	}

	if payload.RefreshToken != "" {
		// Accepted but unused; nothing is revoked with it today.
		h.logger.Info("refresh token received on signout",
			slog.Int("token_length", len(payload.RefreshToken)))
	}

	// Clearing is unconditional and idempotent; signing out without a
	// cookie still succeeds.
	h.cookies.Remove(w)
	h.logger.Info("user signed out")
	httpx.JSON(w, http.StatusOK, map[string]string{"message": msgSignedOut})
}

// establishSession issues a token for the user, attaches the session cookie,
// and records login audit metadata best-effort. On failure the 500 response
// has already been written.
func (h *Handler) establishSession(w http.ResponseWriter, r *http.Request, user *PublicUser, op string) (string, bool) {
	token, err := h.issuer.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		h.unexpected(w, op, err)
		return "", false
	}
	h.cookies.Attach(w, token)

	now := time.Now()
	entry := LoginAudit{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
		IssuedAt:  now,
		ExpiresAt: now.Add(h.issuer.TTL()),
	}
	if claims := h.issuer.Decode(token); claims != nil {
		entry.TokenID = claims.ID
		if claims.ExpiresAt != nil {
			entry.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	if err := h.service.RecordLogin(r.Context(), entry); err != nil {
		h.logger.Warn("record login audit", slog.Any("error", err))
	}
	return token, true
}

// unexpected logs the full error server-side and returns the generic 500
// body; internal error text never reaches the client.
func (h *Handler) unexpected(w http.ResponseWriter, op string, err error) {
	h.logger.Error("unexpected error during "+op, slog.Any("error", err))
	httpx.Error(w, http.StatusInternalServerError, msgUnexpected)
}
