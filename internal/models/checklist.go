package models

import "time"

// Каталог чек-листов: именованный упорядоченный набор критериев проверки
type Checklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Items []ChecklistItem `json:"items"`
}

type ChecklistItem struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	ChecklistID uint `gorm:"index;not null" json:"checklistId"`

	Description string `gorm:"type:text;not null" json:"description"`
	// порядковый номер присваивается при добавлении и не пересчитывается
	// при удалении соседних пунктов (допускаются пропуски)
	OrderIndex      int    `gorm:"not null" json:"orderIndex"`
	DesiredPhotoURL string `gorm:"size:500" json:"desiredPhotoUrl,omitempty"`
}
