// Жизненный цикл проверок: строгий порядок статусов
// PLANNED → IN_PROGRESS → COMPLETED, назад пути нет.
package lifecycle

import (
	"errors"
	"strings"
	"time"

	"inspection-portal/internal/apperr"
	"inspection-portal/internal/ledger"
	"inspection-portal/internal/models"

	"gorm.io/gorm"
)

type Lifecycle struct {
	db     *gorm.DB
	ledger *ledger.Ledger
}

func New(db *gorm.DB, l *ledger.Ledger) *Lifecycle {
	return &Lifecycle{db: db, ledger: l}
}

type Statistics struct {
	Planned    int64 `json:"planned"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Total      int64 `json:"total"`
}

// UpdateParams — частичное обновление; nil-поле не меняется.
// ChecklistSet=true с нулевым ChecklistID снимает чек-лист с проверки.
type UpdateParams struct {
	FacilityName      *string
	InspectionDate    *time.Time
	ResponsibleUserID *uint
	ChecklistID       *uint
	ChecklistSet      bool
}

func (lc *Lifecycle) Create(facilityName string, date time.Time, responsibleUserID uint, checklistID *uint) (models.Inspection, error) {
	facilityName = strings.TrimSpace(facilityName)
	if facilityName == "" {
		return models.Inspection{}, apperr.Validation("укажите название объекта")
	}

	var user models.User
	if err := lc.db.First(&user, responsibleUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Inspection{}, apperr.NotFound("ответственный пользователь не найден")
		}
		return models.Inspection{}, err
	}

	if checklistID != nil {
		var checklist models.Checklist
		if err := lc.db.First(&checklist, *checklistID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Inspection{}, apperr.NotFound("чек-лист не найден")
			}
			return models.Inspection{}, err
		}
	}

	inspection := models.Inspection{
		FacilityName:      facilityName,
		InspectionDate:    date,
		ResponsibleUserID: responsibleUserID,
		ChecklistID:       checklistID,
		Status:            models.StatusPlanned,
	}
	if err := lc.db.Create(&inspection).Error; err != nil {
		return models.Inspection{}, err
	}
	return lc.Get(inspection.ID)
}

func (lc *Lifecycle) Get(id uint) (models.Inspection, error) {
	var inspection models.Inspection
	err := lc.db.
		Preload("ResponsibleUser").
		Preload("Checklist").
		Preload("Checklist.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("checklist_items.order_index asc")
		}).
		First(&inspection, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Inspection{}, apperr.NotFound("проверка не найдена")
	}
	return inspection, err
}

func (lc *Lifecycle) List() ([]models.Inspection, error) {
	var inspections []models.Inspection
	err := lc.db.
		Preload("ResponsibleUser").
		Preload("Checklist").
		Order("inspection_date asc, id asc").
		Find(&inspections).Error
	return inspections, err
}

func (lc *Lifecycle) ListByStatus(status models.InspectionStatus) ([]models.Inspection, error) {
	if !status.Valid() {
		return nil, apperr.Validation("недопустимый статус проверки")
	}
	var inspections []models.Inspection
	err := lc.db.
		Preload("ResponsibleUser").
		Preload("Checklist").
		Where("status = ?", status).
		Order("inspection_date asc, id asc").
		Find(&inspections).Error
	return inspections, err
}

func (lc *Lifecycle) GetStatistics() (Statistics, error) {
	var stats Statistics
	counts := []struct {
		status models.InspectionStatus
		dst    *int64
	}{
		{models.StatusPlanned, &stats.Planned},
		{models.StatusInProgress, &stats.InProgress},
		{models.StatusCompleted, &stats.Completed},
	}
	for _, c := range counts {
		if err := lc.db.Model(&models.Inspection{}).
			Where("status = ?", c.status).
			Count(c.dst).Error; err != nil {
			return Statistics{}, err
		}
	}
	stats.Total = stats.Planned + stats.InProgress + stats.Completed
	return stats, nil
}

// Start переводит PLANNED в IN_PROGRESS. Вызывается явно либо неявно
// при входе в режим выполнения; повторный вызов — no-op.
func (lc *Lifecycle) Start(id uint) (models.Inspection, error) {
	inspection, err := lc.Get(id)
	if err != nil {
		return models.Inspection{}, err
	}
	if inspection.Status != models.StatusPlanned {
		return inspection, nil
	}

	if err := lc.db.Model(&models.Inspection{}).
		Where("id = ?", id).
		Update("status", models.StatusInProgress).Error; err != nil {
		return models.Inspection{}, err
	}
	inspection.Status = models.StatusInProgress
	return inspection, nil
}

// Complete переводит проверку в COMPLETED. Отсутствие итогов по части
// пунктов завершению не мешает — это мягкое предупреждение на стороне
// вызывающего. Для уже завершённой проверки — no-op.
func (lc *Lifecycle) Complete(id uint) (models.Inspection, error) {
	inspection, err := lc.Get(id)
	if err != nil {
		return models.Inspection{}, err
	}
	if inspection.Status == models.StatusCompleted {
		return inspection, nil
	}

	if err := lc.db.Model(&models.Inspection{}).
		Where("id = ?", id).
		Update("status", models.StatusCompleted).Error; err != nil {
		return models.Inspection{}, err
	}
	inspection.Status = models.StatusCompleted
	return inspection, nil
}

// SetStatus принимает только движение вперёд; текущий статус — no-op.
func (lc *Lifecycle) SetStatus(id uint, status models.InspectionStatus) (models.Inspection, error) {
	if !status.Valid() {
		return models.Inspection{}, apperr.Validation("недопустимый статус проверки")
	}

	inspection, err := lc.Get(id)
	if err != nil {
		return models.Inspection{}, err
	}
	if status.Rank() < inspection.Status.Rank() {
		return models.Inspection{}, apperr.Validation("статус проверки не может двигаться назад")
	}

	switch status {
	case models.StatusInProgress:
		return lc.Start(id)
	case models.StatusCompleted:
		return lc.Complete(id)
	default:
		// status == PLANNED допустим только как no-op над PLANNED
		return inspection, nil
	}
}

// Update меняет атрибуты проверки. Завершённая проверка не редактируется.
func (lc *Lifecycle) Update(id uint, params UpdateParams) (models.Inspection, error) {
	inspection, err := lc.Get(id)
	if err != nil {
		return models.Inspection{}, err
	}
	if inspection.Status == models.StatusCompleted {
		return models.Inspection{}, apperr.Validation("завершённая проверка не редактируется")
	}

	if params.FacilityName != nil {
		trimmed := strings.TrimSpace(*params.FacilityName)
		if trimmed == "" {
			return models.Inspection{}, apperr.Validation("укажите название объекта")
		}
		inspection.FacilityName = trimmed
	}
	if params.InspectionDate != nil {
		inspection.InspectionDate = *params.InspectionDate
	}
	if params.ResponsibleUserID != nil {
		var user models.User
		if err := lc.db.First(&user, *params.ResponsibleUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Inspection{}, apperr.NotFound("ответственный пользователь не найден")
			}
			return models.Inspection{}, err
		}
		inspection.ResponsibleUserID = *params.ResponsibleUserID
	}
	if params.ChecklistSet {
		if params.ChecklistID != nil {
			var checklist models.Checklist
			if err := lc.db.First(&checklist, *params.ChecklistID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.Inspection{}, apperr.NotFound("чек-лист не найден")
				}
				return models.Inspection{}, err
			}
		}
		inspection.ChecklistID = params.ChecklistID
	}

	updates := map[string]interface{}{
		"facility_name":       inspection.FacilityName,
		"inspection_date":     inspection.InspectionDate,
		"responsible_user_id": inspection.ResponsibleUserID,
		"checklist_id":        inspection.ChecklistID,
	}
	if err := lc.db.Model(&models.Inspection{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return models.Inspection{}, err
	}
	return lc.Get(id)
}

// Delete удаляет проверку в любом статусе вместе со всеми её итогами.
func (lc *Lifecycle) Delete(id uint) error {
	var inspection models.Inspection
	if err := lc.db.First(&inspection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("проверка не найдена")
		}
		return err
	}

	if err := lc.ledger.DeleteForInspection(id); err != nil {
		return err
	}
	return lc.db.Delete(&models.Inspection{}, id).Error
}

// MissingResults — сколько пунктов чек-листа остались без итога.
// Для проверки без чек-листа всегда 0.
func (lc *Lifecycle) MissingResults(id uint) (int64, error) {
	inspection, err := lc.Get(id)
	if err != nil {
		return 0, err
	}
	if inspection.ChecklistID == nil {
		return 0, nil
	}

	var items int64
	if err := lc.db.Model(&models.ChecklistItem{}).
		Where("checklist_id = ?", *inspection.ChecklistID).
		Count(&items).Error; err != nil {
		return 0, err
	}

	var recorded int64
	if err := lc.db.Model(&models.Result{}).
		Joins("JOIN checklist_items ON checklist_items.id = results.checklist_item_id").
		Where("results.inspection_id = ? AND checklist_items.checklist_id = ?", id, *inspection.ChecklistID).
		Count(&recorded).Error; err != nil {
		return 0, err
	}

	if recorded > items {
		return 0, nil
	}
	return items - recorded, nil
}
