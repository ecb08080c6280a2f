package handler

import (
	"net/http"
	"strconv"

	"flicklog/internal/middleware"
	"flicklog/internal/repository"
	"flicklog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type SharingHandler struct {
	sharingService *service.SharingService
	collabRepo     *repository.CollaboratorRepository
	userRepo       *repository.UserRepository
}

func NewSharingHandler(
	sharingService *service.SharingService,
	collabRepo *repository.CollaboratorRepository,
	userRepo *repository.UserRepository,
) *SharingHandler {
	return &SharingHandler{sharingService: sharingService, collabRepo: collabRepo, userRepo: userRepo}
}

// GetShared returns the lists a friend shares with the caller together with
// the caller's own lists available to share back.
func (h *SharingHandler) GetShared(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID, ok := h.resolveFriend(c, userID)
	if !ok {
		return
	}

	friend, err := h.userRepo.GetByID(friendID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "friend not found"})
		return
	}

	shared, err := h.sharingService.ListsSharedBy(friendID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load shared lists"})
		return
	}
	available, err := h.sharingService.AvailableLists(userID, friendID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load available lists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"friend": gin.H{
			"id":         friend.ID,
			"username":   friend.Username,
			"name":       friend.Name,
			"avatar_url": friend.AvatarURL,
		},
		"shared_lists":    shared,
		"available_lists": available,
	})
}

// UpdateShared replaces the full set of lists the caller shares with a friend.
func (h *SharingHandler) UpdateShared(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID, ok := h.resolveFriend(c, userID)
	if !ok {
		return
	}

	var req struct {
		Lists []service.ListSelection `json:"lists"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	shared, err := h.sharingService.SetSharing(userID, friendID, req.Lists)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFriends):
			c.JSON(http.StatusForbidden, gin.H{"error": "not friends with this user"})
		case errors.Is(err, service.ErrInvalidList):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list selection"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update sharing"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"shared_lists": shared,
		"shared_count": len(shared),
	})
}

// resolveFriend parses the :id param and enforces an accepted friendship.
// It writes the error response itself when the check fails.
func (h *SharingHandler) resolveFriend(c *gin.Context, userID uint) (uint, bool) {
	friendID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friend id"})
		return 0, false
	}
	if uint(friendID) == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot share with yourself"})
		return 0, false
	}
	friends, err := h.collabRepo.AreFriends(userID, uint(friendID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check friendship"})
		return 0, false
	}
	if !friends {
		c.JSON(http.StatusForbidden, gin.H{"error": "not friends with this user"})
		return 0, false
	}
	return uint(friendID), true
}
