package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/service"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ContactStatusRequest is the body of PATCH /admin/contacts/:id
type ContactStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *Handler) register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	user, token, err := h.svc.Auth.Register(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, sessionResponse{User: user, Token: token})
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	user, token, err := h.svc.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, sessionResponse{User: user, Token: token})
}

func (h *Handler) me(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	user, err := h.svc.Auth.Me(ctx, actorFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, user)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var in service.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	user, err := h.svc.Auth.UpdateProfile(ctx, actorFrom(c).UserID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, user)
}

func (h *Handler) submitContact(c *gin.Context) {
	var msg models.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	if err := h.svc.Contacts.Submit(ctx, &msg); err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, msg)
}

func (h *Handler) listContacts(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	msgs, err := h.svc.Contacts.List(ctx, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, msgs)
}

func (h *Handler) updateContact(c *gin.Context) {
	var req ContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	msg, err := h.svc.Contacts.UpdateStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, msg)
}

func (h *Handler) deleteContact(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	if err := h.svc.Contacts.Delete(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
