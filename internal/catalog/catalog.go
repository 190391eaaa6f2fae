// Каталог чек-листов и их пунктов. Авторизацию не выполняет —
// вызывающая сторона обязана заранее свериться с политикой доступа.
package catalog

import (
	"errors"
	"strings"

	"inspection-portal/internal/apperr"
	"inspection-portal/internal/models"

	"gorm.io/gorm"
)

type Catalog struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) CreateChecklist(name, description string) (models.Checklist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Checklist{}, apperr.Validation("укажите название чек-листа")
	}

	checklist := models.Checklist{
		Name:        name,
		Description: strings.TrimSpace(description),
		Items:       []models.ChecklistItem{},
	}
	if err := c.db.Create(&checklist).Error; err != nil {
		return models.Checklist{}, err
	}
	return checklist, nil
}

func (c *Catalog) ListChecklists() ([]models.Checklist, error) {
	var checklists []models.Checklist
	err := c.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("checklist_items.order_index asc")
		}).
		Order("name asc").
		Find(&checklists).Error
	return checklists, err
}

func (c *Catalog) GetChecklist(id uint) (models.Checklist, error) {
	var checklist models.Checklist
	err := c.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("checklist_items.order_index asc")
		}).
		First(&checklist, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Checklist{}, apperr.NotFound("чек-лист не найден")
	}
	return checklist, err
}

// UpdateChecklist — частичное обновление: nil-поле остаётся как было.
func (c *Catalog) UpdateChecklist(id uint, name, description *string) (models.Checklist, error) {
	var checklist models.Checklist
	if err := c.db.First(&checklist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Checklist{}, apperr.NotFound("чек-лист не найден")
		}
		return models.Checklist{}, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return models.Checklist{}, apperr.Validation("укажите название чек-листа")
		}
		checklist.Name = trimmed
	}
	if description != nil {
		checklist.Description = strings.TrimSpace(*description)
	}

	if err := c.db.Save(&checklist).Error; err != nil {
		return models.Checklist{}, err
	}
	return c.GetChecklist(checklist.ID)
}

// DeleteChecklist — чек-лист, на который ссылаются проверки, удалить
// нельзя: иначе записанные итоги теряют свои критерии.
func (c *Catalog) DeleteChecklist(id uint) error {
	var checklist models.Checklist
	if err := c.db.First(&checklist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("чек-лист не найден")
		}
		return err
	}

	var refs int64
	if err := c.db.Model(&models.Inspection{}).
		Where("checklist_id = ?", id).
		Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return apperr.Conflict("чек-лист используется проверками и не может быть удалён")
	}

	return c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("checklist_id = ?", id).
			Delete(&models.ChecklistItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Checklist{}, id).Error
	})
}

// AddItem добавляет пункт в конец: orderIndex = текущее число пунктов + 1.
func (c *Catalog) AddItem(checklistID uint, description, desiredPhotoURL string) (models.ChecklistItem, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return models.ChecklistItem{}, apperr.Validation("укажите описание пункта")
	}

	var checklist models.Checklist
	if err := c.db.First(&checklist, checklistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ChecklistItem{}, apperr.NotFound("чек-лист не найден")
		}
		return models.ChecklistItem{}, err
	}

	var count int64
	if err := c.db.Model(&models.ChecklistItem{}).
		Where("checklist_id = ?", checklistID).
		Count(&count).Error; err != nil {
		return models.ChecklistItem{}, err
	}

	item := models.ChecklistItem{
		ChecklistID:     checklistID,
		Description:     description,
		OrderIndex:      int(count) + 1,
		DesiredPhotoURL: strings.TrimSpace(desiredPhotoURL),
	}
	if err := c.db.Create(&item).Error; err != nil {
		return models.ChecklistItem{}, err
	}
	return item, nil
}

// UpdateItem — частичное обновление описания и эталонного фото.
func (c *Catalog) UpdateItem(itemID uint, description, desiredPhotoURL *string) (models.ChecklistItem, error) {
	var item models.ChecklistItem
	if err := c.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ChecklistItem{}, apperr.NotFound("пункт чек-листа не найден")
		}
		return models.ChecklistItem{}, err
	}

	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed == "" {
			return models.ChecklistItem{}, apperr.Validation("укажите описание пункта")
		}
		item.Description = trimmed
	}
	if desiredPhotoURL != nil {
		item.DesiredPhotoURL = strings.TrimSpace(*desiredPhotoURL)
	}

	if err := c.db.Save(&item).Error; err != nil {
		return models.ChecklistItem{}, err
	}
	return item, nil
}

// DeleteItem удаляет пункт вместе с записанными по нему итогами.
// Номера оставшихся пунктов не пересчитываются.
func (c *Catalog) DeleteItem(itemID uint) error {
	var item models.ChecklistItem
	if err := c.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("пункт чек-листа не найден")
		}
		return err
	}

	return c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("checklist_item_id = ?", itemID).
			Delete(&models.Result{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChecklistItem{}, itemID).Error
	})
}

// ItemsOf возвращает пункты чек-листа в порядке их номеров.
func (c *Catalog) ItemsOf(checklistID uint) ([]models.ChecklistItem, error) {
	var checklist models.Checklist
	if err := c.db.First(&checklist, checklistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("чек-лист не найден")
		}
		return nil, err
	}

	var items []models.ChecklistItem
	err := c.db.
		Where("checklist_id = ?", checklistID).
		Order("order_index asc").
		Find(&items).Error
	return items, err
}
