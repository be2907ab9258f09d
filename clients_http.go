package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/partsdesk/autoparts_backend/models"
)

func createClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewClient
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, "clients_http.go", "createClientHandler", err)
			return
		}
		client, err := models.CreateClient(c.Request.Context(), &input)
		if err != nil {
			respondError(c, "clients_http.go", "createClientHandler", err)
			return
		}
		c.JSON(http.StatusCreated, client)
	}
}

func listClientsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		search, offset, limit := searchParams(c)
		clients, err := models.GetClients(c.Request.Context(), search, offset, limit)
		if err != nil {
			respondError(c, "clients_http.go", "listClientsHandler", err)
			return
		}
		c.JSON(http.StatusOK, clients)
	}
}

func getClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		client, err := models.GetClient(c.Request.Context(), id)
		if err != nil {
			respondError(c, "clients_http.go", "getClientHandler", err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func updateClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.UpdateClientInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, "clients_http.go", "updateClientHandler", err)
			return
		}
		client, err := models.UpdateClient(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, "clients_http.go", "updateClientHandler", err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func deleteClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, models.UserRoleManager) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		client, err := models.DeleteClient(c.Request.Context(), id)
		if err != nil {
			respondError(c, "clients_http.go", "deleteClientHandler", err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}
