package handler

import (
	"net/http"

	"Child_Shield/internal/service"

	"github.com/gin-gonic/gin"
)

type DiscussionHandler struct {
	svc *service.DiscussionService
}

type CreateDiscussionReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Hashtag     string `json:"hashtag"`
	Link        string `json:"link"`
}

// UpdateDiscussionReq is a partial update; absent fields are kept.
type UpdateDiscussionReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type CommentReq struct {
	Content string `json:"content"`
}

func NewDiscussionHandler(svc *service.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{svc: svc}
}

// List returns every discussion with its owner.
func (h *DiscussionHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns one discussion by its hex id.
func (h *DiscussionHandler) Get(c *gin.Context) {
	d, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Create binds the owner to the caller, never to a body field.
func (h *DiscussionHandler) Create(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}

	var req CreateDiscussionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	v, err := service.DiscussionVariantFrom(req.Type, req.Hashtag, req.Link)
	if err != nil {
		WriteError(c, err)
		return
	}

	d, err := h.svc.Create(c.Request.Context(), a.UserID, req.Title, req.Description, v)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// Update edits title and description; owner or admin.
func (h *DiscussionHandler) Update(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}

	var req UpdateDiscussionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	d, err := h.svc.Update(c.Request.Context(), a, c.Param("id"), req.Title, req.Description)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Delete removes a discussion; owner or admin.
func (h *DiscussionHandler) Delete(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), a, c.Param("id")); err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "discussion deleted"})
}

// Like toggles the caller's like.
func (h *DiscussionHandler) Like(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}

	d, err := h.svc.ToggleLike(c.Request.Context(), c.Param("id"), a.UserID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Comment appends a comment by the caller.
func (h *DiscussionHandler) Comment(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}

	var req CommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	d, err := h.svc.AddComment(c.Request.Context(), c.Param("id"), a.UserID, req.Content)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Attend registers the caller for a forum discussion.
func (h *DiscussionHandler) Attend(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}

	d, err := h.svc.Attend(c.Request.Context(), c.Param("id"), a.UserID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// ListByUser returns the discussions owned by :userId.
func (h *DiscussionHandler) ListByUser(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}

	list, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
