package repository

import (
	"time"

	"flicklog/internal/domain"
	"flicklog/internal/models"

	"gorm.io/gorm"
)

type CollaboratorRepository struct {
	db *gorm.DB
}

func NewCollaboratorRepository(db *gorm.DB) *CollaboratorRepository {
	return &CollaboratorRepository{db: db}
}

func (r *CollaboratorRepository) Create(c *models.Collaborator) error {
	return r.db.Create(c).Error
}

func (r *CollaboratorRepository) GetByID(id uint) (*models.Collaborator, error) {
	var c models.Collaborator
	err := r.db.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetEdge returns the edge between two users in either direction, if any.
func (r *CollaboratorRepository) GetEdge(a, b uint) (*models.Collaborator, error) {
	var c models.Collaborator
	err := r.db.Where("(owner_id = ? AND collaborator_id = ?) OR (owner_id = ? AND collaborator_id = ?)", a, b, b, a).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AreFriends reports whether an accepted edge exists between the two users,
// in either direction.
func (r *CollaboratorRepository) AreFriends(a, b uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Collaborator{}).
		Where("status = ?", domain.CollaboratorStatusAccepted).
		Where("(owner_id = ? AND collaborator_id = ?) OR (owner_id = ? AND collaborator_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

func (r *CollaboratorRepository) Accept(c *models.Collaborator) error {
	now := time.Now()
	c.Status = domain.CollaboratorStatusAccepted
	c.AcceptedAt = &now
	return r.db.Save(c).Error
}

func (r *CollaboratorRepository) Delete(c *models.Collaborator) error {
	return r.db.Delete(c).Error
}

// Unfriend removes the edge between two users and cascades to the sharing
// grants referencing the pair in either role. Visibility settings are
// account-level and stay untouched.
func (r *CollaboratorRepository) Unfriend(a, b uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("(owner_id = ? AND collaborator_id = ?) OR (owner_id = ? AND collaborator_id = ?)", a, b, b, a).
			Delete(&models.Collaborator{}).Error; err != nil {
			return err
		}
		return tx.Where("(owner_id = ? AND friend_id = ?) OR (owner_id = ? AND friend_id = ?)", a, b, b, a).
			Delete(&models.FriendListAccess{}).Error
	})
}

// ListFriends returns accepted edges touching the user, with both sides preloaded.
func (r *CollaboratorRepository) ListFriends(userID uint) ([]models.Collaborator, error) {
	var list []models.Collaborator
	err := r.db.Where("status = ? AND (owner_id = ? OR collaborator_id = ?)", domain.CollaboratorStatusAccepted, userID, userID).
		Preload("Owner").Preload("Collaborator").
		Order("accepted_at DESC").
		Find(&list).Error
	return list, err
}

// ListPendingFor returns invites waiting on the user's decision.
func (r *CollaboratorRepository) ListPendingFor(userID uint) ([]models.Collaborator, error) {
	var list []models.Collaborator
	err := r.db.Where("status = ? AND collaborator_id = ?", domain.CollaboratorStatusPending, userID).
		Preload("Owner").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
