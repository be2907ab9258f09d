package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/partsdesk/autoparts_backend/middlewares"
	"github.com/partsdesk/autoparts_backend/models"
	"github.com/partsdesk/autoparts_backend/utils"
)

// requireRole aborts with 403 unless the caller holds one of the given roles.
func requireRole(c *gin.Context, roles ...models.UserRole) bool {
	claims := middlewares.CtxValue(c.Request.Context())
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		c.Abort()
		return false
	}
	for _, role := range roles {
		if claims.Role == string(role) {
			return true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	c.Abort()
	return false
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, models.UserRoleManager) {
			return
		}
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, "users_http.go", "createUserHandler", err)
			return
		}
		user, err := models.CreateUser(c.Request.Context(), &input)
		if err != nil {
			respondError(c, "users_http.go", "createUserHandler", err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func listUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, models.UserRoleManager) {
			return
		}
		users, err := models.GetUsers(c.Request.Context())
		if err != nil {
			respondError(c, "users_http.go", "listUsersHandler", err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func getUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		claims := middlewares.CtxValue(c.Request.Context())
		// Non-managers can only read themselves.
		if claims.Role != string(models.UserRoleManager) && claims.ID != id {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		user, err := models.GetUser(c.Request.Context(), id)
		if err != nil {
			respondError(c, "users_http.go", "getUserHandler", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func currentUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CtxValue(c.Request.Context())
		user, err := models.GetUser(c.Request.Context(), claims.ID)
		if err != nil {
			respondError(c, "users_http.go", "currentUserHandler", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func updateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, models.UserRoleManager) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, "users_http.go", "updateUserHandler", err)
			return
		}
		user, err := models.UpdateUser(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, "users_http.go", "updateUserHandler", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func deactivateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, models.UserRoleManager) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		claims := middlewares.CtxValue(c.Request.Context())
		if claims.ID == id {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot deactivate your own account"})
			return
		}
		input := models.UpdateUserInput{IsActive: utils.NewFalse()}
		user, err := models.UpdateUser(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, "users_http.go", "deactivateUserHandler", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func getCompanyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CtxValue(c.Request.Context())
		company, err := models.GetCompanyById(c.Request.Context(), claims.CompanyId)
		if err != nil {
			respondError(c, "users_http.go", "getCompanyHandler", err)
			return
		}
		c.JSON(http.StatusOK, company)
	}
}
