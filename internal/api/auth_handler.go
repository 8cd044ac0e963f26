package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/taskwell/taskwell-api/internal/api/middleware"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/service/auth"
	"github.com/taskwell/taskwell-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userService   service.UserService
	jwtService    auth.JWTService
	revokedTokens store.RevokedTokenStore
	validator     *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	revokedTokens store.RevokedTokenStore,
) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		jwtService:    jwtService,
		revokedTokens: revokedTokens,
		validator:     validator.New(),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	pair, err := h.issueTokenPair(w, r, user)
	if err != nil {
		return
	}
	pair.User = NewUserResponse(user)

	shared.RespondWithJSON(w, r, http.StatusCreated, pair)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	pair, err := h.issueTokenPair(w, r, user)
	if err != nil {
		return
	}
	pair.User = NewUserResponse(user)

	shared.RespondWithJSON(w, r, http.StatusOK, pair)
}

// RefreshToken handles POST /api/auth/token/refresh.
// A valid, non-revoked refresh token yields a fresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid token")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.Refresh)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	revoked, err := h.revokedTokens.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to refresh token", err)
		return
	}
	if revoked {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid token", auth.ErrRevokedRefreshToken)
		return
	}

	user, err := h.userService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	pair, err := h.issueTokenPair(w, r, user)
	if err != nil {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pair)
}

// Logout handles POST /api/auth/logout.
// It blacklists the presented refresh token. A malformed or missing token is
// a 400, never a crash.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid token")
		return
	}
	if req.Refresh == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid token")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.Refresh)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid token", err)
		return
	}

	if err := h.revokedTokens.Revoke(r.Context(), claims.ID, claims.UserID, claims.ExpiresAt); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to log out", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Successfully logged out"})
}

// GetProfile handles GET /api/auth/profile.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ProfileUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), userID, service.ProfileUpdateInput{
		Email:     &req.Email,
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(profile.User))
}

// ChangePassword handles PUT /api/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	err := h.userService.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword, req.NewPasswordConfirm)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

// PasswordReset handles POST /api/auth/password-reset.
// Delivery is out of scope; a known email gets an acknowledgement only.
func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	exists, err := h.userService.EmailExists(r.Context(), req.Email)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to process request", err)
		return
	}
	if !exists {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No user found with this email address")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Password reset instructions sent"})
}

// Me handles GET /api/auth/me.
// It returns the current user with their task involvement counts.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProfileResponse{
		UserResponse:  *NewUserResponse(profile.User),
		TasksAssigned: profile.TasksAssigned,
		TasksCreated:  profile.TasksCreated,
	})
}

// issueTokenPair generates an access/refresh pair for the user. On failure
// it writes the error response itself and returns a non-nil error.
func (h *AuthHandler) issueTokenPair(
	w http.ResponseWriter,
	r *http.Request,
	user *domain.User,
) (*TokenResponse, error) {
	access, err := h.jwtService.GenerateToken(r.Context(), user)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return nil, err
	}

	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), user)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return nil, err
	}

	return &TokenResponse{Access: access, Refresh: refresh}, nil
}
