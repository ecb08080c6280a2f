package repository

import (
	"flicklog/internal/domain"
	"flicklog/internal/models"

	"gorm.io/gorm"
)

type SharingRepository struct {
	db *gorm.DB
}

func NewSharingRepository(db *gorm.DB) *SharingRepository {
	return &SharingRepository{db: db}
}

// SharedRow is one list the owner exposes to a viewer.
type SharedRow struct {
	ListType   string `json:"list_type"`
	ListID     *uint  `json:"list_id"`
	Visibility string `json:"visibility"`
	CanEdit    bool   `json:"can_edit"`
}

// ListsSharedBy returns the lists owner exposes to viewer: every list with
// friends/public visibility, plus select_friends lists with a matching access
// grant. list_id is NULL for system lists, so the grant join needs an explicit
// both-NULL branch; plain SQL equality never matches NULL to NULL.
func (r *SharingRepository) ListsSharedBy(ownerID, viewerID uint) ([]SharedRow, error) {
	var rows []SharedRow
	err := r.db.Table("list_visibility AS lv").
		Select("lv.list_type AS list_type, lv.list_id AS list_id, lv.visibility AS visibility, COALESCE(fla.can_edit, 0) AS can_edit").
		Joins(`LEFT JOIN friend_list_access fla ON fla.owner_id = lv.user_id AND fla.friend_id = ?
			AND fla.list_type = lv.list_type
			AND (fla.list_id = lv.list_id OR (fla.list_id IS NULL AND lv.list_id IS NULL))`, viewerID).
		Where("lv.user_id = ?", ownerID).
		Where("lv.visibility IN (?) OR (lv.visibility = ? AND fla.id IS NOT NULL)",
			[]string{domain.VisibilityFriends, domain.VisibilityPublic}, domain.VisibilitySelectFriends).
		Order("lv.list_type ASC").
		Scan(&rows).Error
	return rows, err
}

// GrantsFor returns the explicit access rows from owner to friend.
func (r *SharingRepository) GrantsFor(ownerID, friendID uint) ([]models.FriendListAccess, error) {
	var list []models.FriendListAccess
	err := r.db.Where("owner_id = ? AND friend_id = ?", ownerID, friendID).Find(&list).Error
	return list, err
}

// ReplaceGrants deletes every grant from owner to friend and inserts the new
// set, all in one transaction. Full replace, not a diff; concurrent calls
// race last-write-wins.
func (r *SharingRepository) ReplaceGrants(ownerID, friendID uint, grants []models.FriendListAccess) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ? AND friend_id = ?", ownerID, friendID).
			Delete(&models.FriendListAccess{}).Error; err != nil {
			return err
		}
		if len(grants) == 0 {
			return nil
		}
		return tx.Create(&grants).Error
	})
}
