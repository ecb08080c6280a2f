package handler

import (
	"net/http"
	"strconv"

	"flicklog/internal/domain"
	"flicklog/internal/middleware"
	"flicklog/internal/models"
	"flicklog/internal/repository"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	collabRepo *repository.CollaboratorRepository
	userRepo   *repository.UserRepository
}

func NewFriendHandler(collabRepo *repository.CollaboratorRepository, userRepo *repository.UserRepository) *FriendHandler {
	return &FriendHandler{collabRepo: collabRepo, userRepo: userRepo}
}

// Invite sends a friend request to a user looked up by username.
func (h *FriendHandler) Invite(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Username string `json:"username" binding:"required"`
		Type     string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	if req.Type == "" {
		req.Type = domain.CollaboratorTypeFriend
	}
	if req.Type != domain.CollaboratorTypeFriend && req.Type != domain.CollaboratorTypePartner {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collaborator type"})
		return
	}

	target, err := h.userRepo.GetByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if target.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot invite yourself"})
		return
	}
	if existing, err := h.collabRepo.GetEdge(userID, target.ID); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "request already exists"})
		return
	}

	collab := &models.Collaborator{
		OwnerID:        userID,
		CollaboratorID: target.ID,
		Type:           req.Type,
		Status:         domain.CollaboratorStatusPending,
	}
	if err := h.collabRepo.Create(collab); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": collab})
}

// Accept confirms a pending friend request addressed to the caller.
func (h *FriendHandler) Accept(c *gin.Context) {
	userID := middleware.GetUserID(c)
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}
	collab, err := h.collabRepo.GetByID(uint(requestID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	if collab.CollaboratorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your request"})
		return
	}
	if collab.IsAccepted() {
		c.JSON(http.StatusOK, gin.H{"request": collab})
		return
	}
	if err := h.collabRepo.Accept(collab); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to accept request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": collab})
}

// Decline removes a pending request addressed to the caller.
func (h *FriendHandler) Decline(c *gin.Context) {
	userID := middleware.GetUserID(c)
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}
	collab, err := h.collabRepo.GetByID(uint(requestID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	if collab.CollaboratorID != userID && collab.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your request"})
		return
	}
	if err := h.collabRepo.Delete(collab); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decline request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Unfriend removes the friendship and every list grant between the two users.
func (h *FriendHandler) Unfriend(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friend id"})
		return
	}
	friends, err := h.collabRepo.AreFriends(userID, uint(friendID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check friendship"})
		return
	}
	if !friends {
		c.JSON(http.StatusNotFound, gin.H{"error": "not friends"})
		return
	}
	if err := h.collabRepo.Unfriend(userID, uint(friendID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unfriend"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := middleware.GetUserID(c)
	edges, err := h.collabRepo.ListFriends(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list friends"})
		return
	}
	friends := make([]gin.H, 0, len(edges))
	for _, e := range edges {
		u, err := h.userRepo.GetByID(e.Other(userID))
		if err != nil {
			continue
		}
		friends = append(friends, gin.H{
			"id":          u.ID,
			"username":    u.Username,
			"name":        u.Name,
			"avatar_url":  u.AvatarURL,
			"type":        e.Type,
			"accepted_at": e.AcceptedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

func (h *FriendHandler) ListPending(c *gin.Context) {
	userID := middleware.GetUserID(c)
	edges, err := h.collabRepo.ListPendingFor(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}
	pending := make([]gin.H, 0, len(edges))
	for _, e := range edges {
		u, err := h.userRepo.GetByID(e.OwnerID)
		if err != nil {
			continue
		}
		pending = append(pending, gin.H{
			"request_id": e.ID,
			"from": gin.H{
				"id":         u.ID,
				"username":   u.Username,
				"name":       u.Name,
				"avatar_url": u.AvatarURL,
			},
			"type":       e.Type,
			"created_at": e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"requests": pending})
}
