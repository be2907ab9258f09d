package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/partsdesk/autoparts_backend/models"
	"github.com/partsdesk/autoparts_backend/utils"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	User         *models.User `json:"user"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, "auth_http.go", "loginHandler", err)
			return
		}

		ctx := c.Request.Context()
		user, err := models.GetUserByEmail(ctx, req.Email)
		if err != nil {
			// Same response for unknown email and bad password.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := utils.ComparePassword(user.HashedPassword, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if user.IsActive != nil && !*user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account is deactivated"})
			return
		}

		access, err := utils.JwtGenerate(user.ID, string(user.Role), user.CompanyId)
		if err != nil {
			respondError(c, "auth_http.go", "loginHandler", err)
			return
		}
		refresh, err := models.IssueRefreshToken(ctx, user.ID)
		if err != nil {
			respondError(c, "auth_http.go", "loginHandler", err)
			return
		}

		c.JSON(http.StatusOK, tokenResponse{
			AccessToken:  access,
			RefreshToken: refresh.Token,
			TokenType:    "bearer",
			User:         user,
		})
	}
}

func refreshHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, "auth_http.go", "refreshHandler", err)
			return
		}

		ctx := c.Request.Context()
		next, user, err := models.RotateRefreshToken(ctx, req.RefreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		access, err := utils.JwtGenerate(user.ID, string(user.Role), user.CompanyId)
		if err != nil {
			respondError(c, "auth_http.go", "refreshHandler", err)
			return
		}

		c.JSON(http.StatusOK, tokenResponse{
			AccessToken:  access,
			RefreshToken: next.Token,
			TokenType:    "bearer",
			User:         user,
		})
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, "auth_http.go", "logoutHandler", err)
			return
		}
		if err := models.RevokeRefreshToken(c.Request.Context(), req.RefreshToken); err != nil {
			respondError(c, "auth_http.go", "logoutHandler", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
