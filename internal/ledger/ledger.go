// Журнал итогов: по одной строке на пару (проверка, пункт чек-листа).
// Запись по существующей паре дополняет строку, не затирая ранее
// сохранённые поля.
package ledger

import (
	"errors"

	"inspection-portal/internal/apperr"
	"inspection-portal/internal/models"

	"gorm.io/gorm"
)

type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Record — upsert по ключу (inspectionID, itemID). nil-поле не трогает
// уже сохранённое значение: правка комментария не сбрасывает статус и
// наоборот. Если строки ещё нет и статус не передан (прикрепили только
// фото) — строка создаётся со статусом NOT_APPLICABLE.
func (l *Ledger) Record(inspectionID, itemID uint, status *models.ResultStatus, comment, photoURL *string) (models.Result, error) {
	if status != nil && !status.Valid() {
		return models.Result{}, apperr.Validation("недопустимый статус итога")
	}

	var item models.ChecklistItem
	if err := l.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Result{}, apperr.NotFound("пункт чек-листа не найден")
		}
		return models.Result{}, err
	}

	var result models.Result
	err := l.db.
		Where("inspection_id = ? AND checklist_item_id = ?", inspectionID, itemID).
		First(&result).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		result = models.Result{
			InspectionID:    inspectionID,
			ChecklistItemID: itemID,
			Status:          models.ResultNotApplicable,
		}
	case err != nil:
		return models.Result{}, err
	}

	if status != nil {
		result.Status = *status
	}
	if comment != nil {
		result.Comment = *comment
	}
	if photoURL != nil {
		result.PhotoURL = *photoURL
	}

	if err := l.db.Save(&result).Error; err != nil {
		return models.Result{}, err
	}
	return result, nil
}

// ForInspection возвращает итоги в порядке номеров пунктов чек-листа.
func (l *Ledger) ForInspection(inspectionID uint) ([]models.Result, error) {
	var results []models.Result
	err := l.db.
		Joins("JOIN checklist_items ON checklist_items.id = results.checklist_item_id").
		Where("results.inspection_id = ?", inspectionID).
		Order("checklist_items.order_index asc").
		Find(&results).Error
	return results, err
}

// Update правит существующую строку по её идентификатору, с тем же
// частичным слиянием полей, что и Record.
func (l *Ledger) Update(resultID uint, status *models.ResultStatus, comment, photoURL *string) (models.Result, error) {
	if status != nil && !status.Valid() {
		return models.Result{}, apperr.Validation("недопустимый статус итога")
	}

	var result models.Result
	if err := l.db.First(&result, resultID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Result{}, apperr.NotFound("итог не найден")
		}
		return models.Result{}, err
	}

	if status != nil {
		result.Status = *status
	}
	if comment != nil {
		result.Comment = *comment
	}
	if photoURL != nil {
		result.PhotoURL = *photoURL
	}

	if err := l.db.Save(&result).Error; err != nil {
		return models.Result{}, err
	}
	return result, nil
}

func (l *Ledger) Delete(resultID uint) error {
	var result models.Result
	if err := l.db.First(&result, resultID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("итог не найден")
		}
		return err
	}
	return l.db.Delete(&models.Result{}, resultID).Error
}

// DeleteForInspection — каскад при удалении проверки, из UI не зовётся.
func (l *Ledger) DeleteForInspection(inspectionID uint) error {
	return l.db.Where("inspection_id = ?", inspectionID).
		Delete(&models.Result{}).Error
}
