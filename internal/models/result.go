package models

import "time"

type ResultStatus string

const (
	ResultFulfilled     ResultStatus = "FULFILLED"
	ResultNotFulfilled  ResultStatus = "NOT_FULFILLED"
	ResultNotApplicable ResultStatus = "NOT_APPLICABLE"
)

func (s ResultStatus) Valid() bool {
	switch s {
	case ResultFulfilled, ResultNotFulfilled, ResultNotApplicable:
		return true
	}
	return false
}

// Итог по одному пункту чек-листа в рамках одной проверки.
// Пара (inspection_id, checklist_item_id) — естественный ключ,
// повторная запись по ней обновляет существующую строку.
type Result struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	InspectionID    uint `gorm:"not null;uniqueIndex:idx_result_inspection_item" json:"inspectionId"`
	ChecklistItemID uint `gorm:"not null;uniqueIndex:idx_result_inspection_item" json:"checklistItemId"`

	Status   ResultStatus `gorm:"type:varchar(20);not null" json:"status"`
	Comment  string       `gorm:"type:text" json:"comment"`
	PhotoURL string       `gorm:"size:500" json:"photoUrl,omitempty"`
}
