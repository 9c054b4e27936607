package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"koinsave/internal/dto"
	apierrors "koinsave/internal/errors"
	"koinsave/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService services.AuthServiceInterface
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup handles user registration and returns an access token so the
// client is signed in immediately after creating an account
func (h *AuthHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	tokens, err := h.authService.Signup(&req)
	if err != nil {
		if err == services.ErrUserAlreadyExists {
			return SendError(c, apierrors.AuthEmailTaken)
		}
		if isPasswordPolicyError(err) {
			return SendError(c, apierrors.ValidationWeakPassword, apierrors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, tokens)
}

// Login handles user authentication
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	tokens, err := h.authService.Login(&req)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			slog.Warn("login rejected",
				"email", req.Email,
				"client_ip", getClientIP(c),
				"trace_id", getTraceID(c))
			return SendError(c, apierrors.AuthInvalidCredentials)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, tokens)
}

// Logout revokes the current access token
func (h *AuthHandler) Logout(c echo.Context) error {
	token, ok := c.Get("token").(string)
	if !ok || token == "" {
		return SendError(c, apierrors.AuthMissingToken)
	}

	if err := h.authService.Logout(token); err != nil {
		if err == services.ErrInvalidToken {
			return SendError(c, apierrors.AuthInvalidTokenFormat)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Logged out successfully",
	})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	user, err := h.authService.CurrentUser(userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			return SendError(c, apierrors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.NewUserResponse(user),
		Meta: map[string]interface{}{
			"retrieved_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func isPasswordPolicyError(err error) bool {
	policyErrors := []error{
		services.ErrPasswordEmpty,
		services.ErrPasswordTooShort,
		services.ErrPasswordTooLong,
		services.ErrPasswordNoUppercase,
		services.ErrPasswordNoLowercase,
		services.ErrPasswordNoNumber,
		services.ErrPasswordNoSpecial,
	}
	for _, policyErr := range policyErrors {
		if errors.Is(err, policyErr) {
			return true
		}
	}
	return false
}
