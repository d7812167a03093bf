package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/userhub/backend/internal/db"
	"github.com/userhub/backend/internal/model"
	"github.com/userhub/backend/internal/service"
)

type UserHandler struct {
	svc      *service.UserService
	identity *IdentityExtractor
}

func NewUserHandler(svc *service.UserService, identity *IdentityExtractor) *UserHandler {
	return &UserHandler{svc: svc, identity: identity}
}

// List godoc
// @Summary List users
// @Tags user
// @Produce json
// @Success 200 {array} model.UserResponse
// @Router /api/v1/user [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get godoc
// @Summary Get a user
// @Tags user
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.UserResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/user/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	user, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		writeUserError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Create godoc
// @Summary Create a user
// @Tags user
// @Accept json
// @Produce json
// @Param request body model.CreateUserRequest true "New user"
// @Success 200 {object} model.UserResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Router /api/v1/user [post]
func (h *UserHandler) Create(c *gin.Context) {
	actor, err := h.identity.Extract(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	user, err := h.svc.Create(c.Request.Context(), actor.ID, req)
	if err != nil {
		if db.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update godoc
// @Summary Update a user
// @Tags user
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body model.UpdateUserRequest true "Changed fields"
// @Success 200 {object} model.UserResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Router /api/v1/user/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	actor, err := h.identity.Extract(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	user, err := h.svc.Update(c.Request.Context(), userID, actor.ID, req)
	if err != nil {
		writeUserError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete a user
// @Tags user
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/user/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID); err != nil {
		writeUserError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "deleted"})
}

func pathUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.UUID{}, false
	}
	return userID, true
}

func writeUserError(c *gin.Context, userID uuid.UUID, err error) {
	if db.IsNoRows(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user " + userID.String() + " not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
}
