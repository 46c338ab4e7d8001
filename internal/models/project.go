package models

type Project struct {
	BaseModel

	Name        string `gorm:"not null"`
	Description string `gorm:"not null"`
	CreatorID   string `gorm:"type:uuid;not null;index"`

	// Relationships
	Creator      User                 `gorm:"foreignKey:CreatorID"`
	Participants []ProjectParticipant `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Tasks        []Task               `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
