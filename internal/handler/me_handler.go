package handler

import (
	"fmt"
	"net/http"

	"flicklog/internal/middleware"
	"flicklog/internal/repository"
	"flicklog/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo    *repository.UserRepository
	libraryRepo *repository.LibraryRepository
	listRepo    *repository.ListRepository
	cloud       cloudinary.Client
}

func NewMeHandler(
	userRepo *repository.UserRepository,
	libraryRepo *repository.LibraryRepository,
	listRepo *repository.ListRepository,
	cloud cloudinary.Client,
) *MeHandler {
	return &MeHandler{userRepo: userRepo, libraryRepo: libraryRepo, listRepo: listRepo, cloud: cloud}
}

func (h *MeHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	libraryCount, _ := h.libraryRepo.CountByUser(userID)
	listCount, _ := h.listRepo.CountByUserID(userID)
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"library_count": libraryCount,
		"list_count":    listCount,
		"trakt_linked":  u.TraktLinked(),
	})
}

func (h *MeHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Username != "" && req.Username != u.Username {
		if _, err := h.userRepo.GetByUsername(req.Username); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		u.Username = req.Username
	}
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UploadAvatar stores the avatar on Cloudinary and saves the delivery URL.
func (h *MeHandler) UploadAvatar(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	userID := middleware.GetUserID(c)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()
	if header.Size > 5<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}
	url, _, err := h.cloud.UploadImage(c.Request.Context(), file, "avatars", fmt.Sprintf("user_%d", userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	u.AvatarURL = url
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
