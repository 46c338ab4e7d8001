package models

import "time"

// ProjectParticipant is the only record of membership: a project's
// participants and a user's joined projects are both read from it.
type ProjectParticipant struct {
	ProjectID string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID"`
	Project Project `gorm:"foreignKey:ProjectID"`
}
