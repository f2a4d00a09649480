package handler

import (
	"errors"
	"net/http"

	"souqy/config"
	"souqy/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cfg     *config.Config
	authSvc *service.AuthService
}

func NewAuthHandler(cfg *config.Config, authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{cfg: cfg, authSvc: authSvc}
}

// SendOTP issues a registration or password-reset code. SMS delivery is
// external; development mode returns the code for testing.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		Type  string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone number and type are required"})
		return
	}
	code, err := h.authSvc.SendOTP(c.Request.Context(), req.Phone, req.Type)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := gin.H{"message": "OTP sent successfully"}
	if h.cfg.IsDevelopment() {
		resp["otp"] = code
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req struct {
		FullName string `json:"full_name" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
		OTP      string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, token, err := h.authSvc.RegisterUser(c.Request.Context(), req.FullName, req.Phone, req.Password, req.OTP)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"user":    u,
		"token":   token,
	})
}

func (h *AuthHandler) RegisterAdvertiser(c *gin.Context) {
	var req struct {
		FullName    string `json:"full_name" binding:"required"`
		Phone       string `json:"phone" binding:"required"`
		Password    string `json:"password" binding:"required,min=6"`
		StoreName   string `json:"store_name" binding:"required"`
		Description string `json:"description"`
		OTP         string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, token, err := h.authSvc.RegisterAdvertiser(c.Request.Context(),
		req.FullName, req.Phone, req.Password, req.StoreName, req.Description, req.OTP)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "advertiser registered successfully",
		"user":    u,
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone and password are required"})
		return
	}
	u, token, err := h.authSvc.Login(req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    u,
		"token":   token,
	})
}

// ForgotPassword is an alias for sending a password-reset OTP.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone number is required"})
		return
	}
	code, err := h.authSvc.SendOTP(c.Request.Context(), req.Phone, "password_reset")
	if err != nil {
		writeError(c, err)
		return
	}
	resp := gin.H{"message": "password reset OTP sent"}
	if h.cfg.IsDevelopment() {
		resp["otp"] = code
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Phone       string `json:"phone" binding:"required"`
		OTP         string `json:"otp" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Phone, req.OTP, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset successfully"})
}
