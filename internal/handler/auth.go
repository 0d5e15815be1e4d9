package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paperpatch/poster-store/internal/config"
	"github.com/paperpatch/poster-store/internal/utils"
)

// AuthHandler issues admin session tokens. There is a single operator
// account; the password hash lives in configuration.
type AuthHandler struct {
	Cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

type loginReq struct {
	Password string `json:"password"`
}

type loginResp struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Login checks the operator password and returns a signed session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}
	if !utils.VerifySecret(h.Cfg.AdminPasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, h.Cfg.SessionTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, loginResp{Token: tok.Token, ExpiresAt: tok.Exp.Unix()})
}
