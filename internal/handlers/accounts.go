package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/altora/accountd/internal/services"
	appErrors "github.com/altora/accountd/pkg/errors"
	"github.com/altora/accountd/pkg/response"
)

// AccountHandler exposes the account lifecycle operations over HTTP.
type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.accounts.Register(requestContext(c), req.Email, req.Password)
	if err != nil {
		response.Error(c, mapAccountError(err))
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":      user.ID,
		"email":   user.Email,
		"message": "user successfully created",
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.accounts.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		response.Error(c, mapAccountError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("welcome back, %s", user.Email),
	})
}

type verifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// POST /api/auth/verify
func (h *AccountHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if _, err := h.accounts.Verify(requestContext(c), req.Token); err != nil {
		response.Error(c, mapAccountError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "user verified"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /api/auth/forgot-password
func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if _, err := h.accounts.ForgotPassword(requestContext(c), req.Email); err != nil {
		response.Error(c, mapAccountError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "you may now reset your password"})
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/reset-password
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if _, err := h.accounts.ResetPassword(requestContext(c), req.Token, req.Password); err != nil {
		response.Error(c, mapAccountError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "password successfully reset"})
}

type sendMailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// POST /api/mail/send
//
// Passthrough to the mail collaborator. Delivery is fire-and-forget, so the
// caller always receives an accepted response.
func (h *AccountHandler) SendMail(c *gin.Context) {
	var req sendMailRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.accounts.SendMail(requestContext(c), req.To, req.Subject, req.Body)

	response.Success(c, http.StatusAccepted, gin.H{"message": "mail accepted"})
}

// mapAccountError translates service sentinel errors into client-facing
// AppErrors. Anything unrecognised renders as a generic internal error.
func mapAccountError(err error) error {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		return appErrors.ErrUserExists
	case errors.Is(err, services.ErrUserNotFound):
		return appErrors.ErrUserNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		return appErrors.ErrInvalidCredentials
	case errors.Is(err, services.ErrNotVerified):
		return appErrors.ErrUserNotVerified
	case errors.Is(err, services.ErrInvalidVerificationToken):
		return appErrors.ErrInvalidToken
	case errors.Is(err, services.ErrInvalidResetToken):
		return appErrors.ErrResetTokenInvalid
	default:
		return appErrors.ErrInternalServer.WithInternal(err)
	}
}
