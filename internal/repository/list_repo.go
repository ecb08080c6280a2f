package repository

import (
	"errors"

	"flicklog/internal/models"

	"gorm.io/gorm"
)

type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) Create(l *models.CustomList) error {
	return r.db.Create(l).Error
}

func (r *ListRepository) GetByID(id uint) (*models.CustomList, error) {
	var l models.CustomList
	err := r.db.First(&l, id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListRepository) Update(l *models.CustomList) error {
	return r.db.Save(l).Error
}

func (r *ListRepository) Delete(l *models.CustomList) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", l.ID).Delete(&models.CustomListItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(l).Error
	})
}

func (r *ListRepository) ListByUserID(userID uint) ([]models.CustomList, error) {
	var list []models.CustomList
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *ListRepository) CountByUserID(userID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.CustomList{}).Where("user_id = ?", userID).Count(&c).Error
	return c, err
}

func (r *ListRepository) AddItem(listID, mediaID uint) error {
	var c int64
	r.db.Model(&models.CustomListItem{}).Where("list_id = ? AND media_id = ?", listID, mediaID).Count(&c)
	if c > 0 {
		return nil
	}
	return r.db.Create(&models.CustomListItem{ListID: listID, MediaID: mediaID}).Error
}

func (r *ListRepository) RemoveItem(listID, mediaID uint) error {
	return r.db.Where("list_id = ? AND media_id = ?", listID, mediaID).Delete(&models.CustomListItem{}).Error
}

func (r *ListRepository) ListItems(listID uint, limit, offset int) ([]models.CustomListItem, error) {
	var items []models.CustomListItem
	err := r.db.Where("list_id = ?", listID).Preload("Media").Limit(limit).Offset(offset).Find(&items).Error
	return items, err
}

// GetVisibility returns the visibility row for a list, or nil when the owner
// never set one (implicitly private).
func (r *ListRepository) GetVisibility(userID uint, ref models.ListRef) (*models.ListVisibility, error) {
	var v models.ListVisibility
	q := r.db.Where("user_id = ? AND list_type = ?", userID, ref.ListType)
	if ref.ListID == nil {
		q = q.Where("list_id IS NULL")
	} else {
		q = q.Where("list_id = ?", *ref.ListID)
	}
	err := q.First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SetVisibility upserts the single visibility row for (user, list).
func (r *ListRepository) SetVisibility(userID uint, ref models.ListRef, visibility string) error {
	existing, err := r.GetVisibility(userID, ref)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(&models.ListVisibility{
			UserID:     userID,
			ListType:   ref.ListType,
			ListID:     ref.ListID,
			Visibility: visibility,
		}).Error
	}
	existing.Visibility = visibility
	return r.db.Save(existing).Error
}

func (r *ListRepository) ListVisibilities(userID uint) ([]models.ListVisibility, error) {
	var list []models.ListVisibility
	err := r.db.Where("user_id = ?", userID).Find(&list).Error
	return list, err
}
