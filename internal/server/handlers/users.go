package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sowmensarker/ambika/internal/domain/models"
)

type updateUserRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

// Me handles GET /users/me. The first visit stores the profile snapshot.
func (h *Handler) Me(c *gin.Context) {
	identity := IdentityFrom(c)
	profile, err := h.svc.Users.Get(c.Request.Context(), identity.UID)
	if errors.Is(err, models.ErrNotFound) {
		profile, err = h.svc.Users.SaveProfile(c.Request.Context(), identity)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// UpdateMe handles PUT /users/me.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	profile, err := h.svc.Users.UpdateField(c.Request.Context(), IdentityFrom(c).UID, req.Field, req.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// EmailExists handles GET /users/exists.
func (h *Handler) EmailExists(c *gin.Context) {
	exists, err := h.svc.Users.EmailExists(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
