package models

import "time"

type InspectionStatus string

const (
	StatusPlanned    InspectionStatus = "PLANNED"
	StatusInProgress InspectionStatus = "IN_PROGRESS"
	StatusCompleted  InspectionStatus = "COMPLETED"
)

// строгий порядок статусов: PLANNED → IN_PROGRESS → COMPLETED
var statusRank = map[InspectionStatus]int{
	StatusPlanned:    1,
	StatusInProgress: 2,
	StatusCompleted:  3,
}

func (s InspectionStatus) Rank() int {
	return statusRank[s]
}

func (s InspectionStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

type Inspection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	FacilityName   string    `gorm:"size:255;not null" json:"facilityName"`
	InspectionDate time.Time `gorm:"type:date;not null" json:"inspectionDate"`

	ResponsibleUserID uint `gorm:"not null" json:"responsibleUserId"`
	ResponsibleUser   User `json:"responsibleUser"`

	// чек-лист может быть не назначен
	ChecklistID *uint      `json:"checklistId"`
	Checklist   *Checklist `json:"checklist,omitempty"`

	Status InspectionStatus `gorm:"type:varchar(20);not null" json:"status"`
}
