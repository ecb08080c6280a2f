package models

import (
	"time"

	"flicklog/internal/domain"
)

// Collaborator is a friendship edge. Stored directed (owner invited
// collaborator) but undirected in meaning; it counts as a friendship only
// once status is accepted.
type Collaborator struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	OwnerID        uint       `gorm:"not null;index:idx_collab_pair,unique" json:"owner_id"`
	CollaboratorID uint       `gorm:"not null;index:idx_collab_pair,unique" json:"collaborator_id"`
	Type           string     `gorm:"size:20;not null;default:'friend'" json:"type"` // friend | partner
	Status         string     `gorm:"size:20;not null;index" json:"status"`          // pending | accepted
	AcceptedAt     *time.Time `json:"accepted_at"`
	CreatedAt      time.Time  `json:"created_at"`

	Owner        User `gorm:"foreignKey:OwnerID" json:"-"`
	Collaborator User `gorm:"foreignKey:CollaboratorID" json:"-"`
}

func (Collaborator) TableName() string {
	return "collaborators"
}

func (c *Collaborator) IsAccepted() bool { return c.Status == domain.CollaboratorStatusAccepted }

// Other returns the user on the opposite side of the edge.
func (c *Collaborator) Other(userID uint) uint {
	if c.OwnerID == userID {
		return c.CollaboratorID
	}
	return c.OwnerID
}
