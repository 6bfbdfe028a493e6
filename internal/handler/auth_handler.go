package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spendsapp/receipt-service/internal/model"
	"github.com/spendsapp/receipt-service/internal/service"
)

// AuthHandler handles token issuance and identity lookups
type AuthHandler struct {
	authService service.AuthService
	expiration  time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, expiration time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		expiration:  expiration,
	}
}

// IssueToken handles the POST /auth/token endpoint
// @Summary Issue a JWT for a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.TokenRequest true "User identity"
// @Success 200 {object} model.TokenResponse "Issued token"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Router /v1/auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req model.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	token, err := h.authService.GenerateToken(req.UserID, req.Username)
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(h.expiration.Seconds()),
	})
}

// Me handles the GET /me endpoint
// @Summary Return the authenticated user's identity
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "User identity"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	username, _ := c.Get("username")
	respondOK(c, gin.H{
		"user_id":  userID,
		"username": username,
	})
}
