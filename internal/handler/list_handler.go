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

type ListHandler struct {
	listRepo  *repository.ListRepository
	mediaRepo *repository.MediaRepository
}

func NewListHandler(listRepo *repository.ListRepository, mediaRepo *repository.MediaRepository) *ListHandler {
	return &ListHandler{listRepo: listRepo, mediaRepo: mediaRepo}
}

func (h *ListHandler) CreateList(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	count, err := h.listRepo.CountByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create list"})
		return
	}
	if count >= domain.MaxCustomLists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "custom list limit reached"})
		return
	}
	list := &models.CustomList{UserID: userID, Name: req.Name, Description: req.Description}
	if err := h.listRepo.Create(list); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create list"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"list": list})
}

func (h *ListHandler) GetLists(c *gin.Context) {
	userID := middleware.GetUserID(c)
	lists, err := h.listRepo.ListByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": lists})
}

func (h *ListHandler) UpdateList(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, ok := h.ownedList(c, userID)
	if !ok {
		return
	}
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name != "" {
		list.Name = req.Name
	}
	if req.Description != nil {
		list.Description = *req.Description
	}
	if err := h.listRepo.Update(list); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *ListHandler) DeleteList(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, ok := h.ownedList(c, userID)
	if !ok {
		return
	}
	if err := h.listRepo.Delete(list); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ListHandler) AddItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, ok := h.ownedList(c, userID)
	if !ok {
		return
	}
	var req struct {
		MediaID uint `json:"media_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_id is required"})
		return
	}
	if _, err := h.mediaRepo.GetByID(req.MediaID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "media not found"})
		return
	}
	if err := h.listRepo.AddItem(list.ID, req.MediaID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (h *ListHandler) RemoveItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, ok := h.ownedList(c, userID)
	if !ok {
		return
	}
	mediaID, err := strconv.ParseUint(c.Param("mediaId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}
	if err := h.listRepo.RemoveItem(list.ID, uint(mediaID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ListHandler) GetItems(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, ok := h.ownedList(c, userID)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	items, err := h.listRepo.ListItems(list.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "items": items})
}

// SetVisibility updates who can see a list. System lists are addressed by
// type with no id; custom lists by their numeric id.
func (h *ListHandler) SetVisibility(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		ListType   string `json:"list_type" binding:"required"`
		ListID     *uint  `json:"list_id"`
		Visibility string `json:"visibility" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "list_type and visibility are required"})
		return
	}
	if !domain.IsValidVisibility(req.Visibility) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid visibility"})
		return
	}
	ref := models.ListRef{ListType: req.ListType, ListID: req.ListID}
	if ref.ListID == nil {
		if !domain.IsSystemListType(ref.ListType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list type"})
			return
		}
	} else {
		if ref.ListType != domain.ListTypeCustom {
			c.JSON(http.StatusBadRequest, gin.H{"error": "only custom lists carry a list_id"})
			return
		}
		list, err := h.listRepo.GetByID(*ref.ListID)
		if err != nil || list == nil || list.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
			return
		}
	}
	if err := h.listRepo.SetVisibility(userID, ref, req.Visibility); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update visibility"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ListHandler) GetVisibilities(c *gin.Context) {
	userID := middleware.GetUserID(c)
	rows, err := h.listRepo.ListVisibilities(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load visibility settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visibilities": rows})
}

func (h *ListHandler) ownedList(c *gin.Context, userID uint) (*models.CustomList, bool) {
	listID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list id"})
		return nil, false
	}
	list, err := h.listRepo.GetByID(uint(listID))
	if err != nil || list == nil || list.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
		return nil, false
	}
	return list, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
