package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUsers handles GET /users: the participant-picker directory, ordered
// by first name ascending. Password hashes never leave the store query.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not list users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}
