package handler

import (
	"net/http"
	"time"

	"timebill/internal/config"
	"timebill/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// AuthHandler authenticates the single operator account configured via
// environment variables. There is no user table.
type AuthHandler struct {
	jwtSecret []byte
	user      string
	passHash  string
}

func NewAuthHandler(cfg config.Config, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{
		jwtSecret: jwtSecret,
		user:      cfg.OperatorUser,
		passHash:  cfg.OperatorPassHash,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/auth/login", h.Login)
}

// Login authenticates the operator and returns a bearer token
// @Summary      Operator login
// @Description  Verifies the operator credentials and returns a signed JWT valid for 24 hours
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      LoginRequest  true  "Operator credentials"
// @Success      200      {object}  response.Response{data=LoginResponse}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if h.passHash == "" || req.Username != h.user ||
		bcrypt.CompareHashAndPassword([]byte(h.passHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid credentials"))
		return
	}

	expiresAt := time.Now().Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": h.user,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	})

	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to sign token"))
		return
	}

	c.SetCookie("access_token", signed, int(tokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, LoginResponse{
		AccessToken: signed,
		ExpiresAt:   expiresAt.Unix(),
	}))
}
