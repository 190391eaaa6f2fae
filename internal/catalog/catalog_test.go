package catalog

import (
	"fmt"
	"testing"

	"inspection-portal/internal/apperr"
	"inspection-portal/internal/database"
	"inspection-portal/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCreateChecklist(t *testing.T) {
	cat := New(testDB(t))

	checklist, err := cat.CreateChecklist("  Пожарная безопасность  ", "ежемесячный обход")
	require.NoError(t, err)
	assert.Equal(t, "Пожарная безопасность", checklist.Name)
	assert.Empty(t, checklist.Items)

	_, err = cat.CreateChecklist("   ", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestAddItemOrderIndex(t *testing.T) {
	cat := New(testDB(t))
	checklist, err := cat.CreateChecklist("чек-лист", "")
	require.NoError(t, err)

	var got []int
	for _, desc := range []string{"первый", "второй", "третий"} {
		item, err := cat.AddItem(checklist.ID, desc, "")
		require.NoError(t, err)
		got = append(got, item.OrderIndex)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestAddItemUnknownChecklist(t *testing.T) {
	cat := New(testDB(t))
	_, err := cat.AddItem(999, "пункт", "")
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteItemKeepsGaps(t *testing.T) {
	cat := New(testDB(t))
	checklist, err := cat.CreateChecklist("чек-лист", "")
	require.NoError(t, err)

	items := make([]models.ChecklistItem, 3)
	for i, desc := range []string{"первый", "второй", "третий"} {
		items[i], err = cat.AddItem(checklist.ID, desc, "")
		require.NoError(t, err)
	}

	require.NoError(t, cat.DeleteItem(items[1].ID))

	rest, err := cat.ItemsOf(checklist.ID)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	// номера не пересчитываются, пропуск остаётся
	assert.Equal(t, 1, rest[0].OrderIndex)
	assert.Equal(t, 3, rest[1].OrderIndex)
}

func TestUpdateItemPartial(t *testing.T) {
	cat := New(testDB(t))
	checklist, err := cat.CreateChecklist("чек-лист", "")
	require.NoError(t, err)

	item, err := cat.AddItem(checklist.ID, "огнетушитель на месте", "/api/files/ref.jpg")
	require.NoError(t, err)

	desc := "огнетушитель на месте и опломбирован"
	updated, err := cat.UpdateItem(item.ID, &desc, nil)
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
	// эталонное фото не затёрто
	assert.Equal(t, "/api/files/ref.jpg", updated.DesiredPhotoURL)

	_, err = cat.UpdateItem(999, &desc, nil)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateChecklistPartial(t *testing.T) {
	cat := New(testDB(t))
	checklist, err := cat.CreateChecklist("старое имя", "описание")
	require.NoError(t, err)

	name := "новое имя"
	updated, err := cat.UpdateChecklist(checklist.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "новое имя", updated.Name)
	assert.Equal(t, "описание", updated.Description)
}

func TestDeleteChecklistBlockedWhileReferenced(t *testing.T) {
	db := testDB(t)
	cat := New(db)

	checklist, err := cat.CreateChecklist("чек-лист", "")
	require.NoError(t, err)

	user := models.User{Username: "user", Name: "user", Email: "user@example.com", PasswordHash: "x", Role: models.RoleUser, Enabled: true}
	require.NoError(t, db.Create(&user).Error)

	inspection := models.Inspection{
		FacilityName:      "склад №1",
		ResponsibleUserID: user.ID,
		ChecklistID:       &checklist.ID,
		Status:            models.StatusPlanned,
	}
	require.NoError(t, db.Create(&inspection).Error)

	err = cat.DeleteChecklist(checklist.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// сняли чек-лист с проверки — удаление проходит
	require.NoError(t, db.Model(&models.Inspection{}).
		Where("id = ?", inspection.ID).
		Update("checklist_id", nil).Error)
	require.NoError(t, cat.DeleteChecklist(checklist.ID))

	_, err = cat.GetChecklist(checklist.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteChecklistRemovesItems(t *testing.T) {
	db := testDB(t)
	cat := New(db)

	checklist, err := cat.CreateChecklist("чек-лист", "")
	require.NoError(t, err)
	_, err = cat.AddItem(checklist.ID, "пункт", "")
	require.NoError(t, err)

	require.NoError(t, cat.DeleteChecklist(checklist.ID))

	var count int64
	require.NoError(t, db.Model(&models.ChecklistItem{}).
		Where("checklist_id = ?", checklist.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteItemRemovesItsResults(t *testing.T) {
	db := testDB(t)
	cat := New(db)

	checklist, err := cat.CreateChecklist("чек-лист", "")
	require.NoError(t, err)
	item, err := cat.AddItem(checklist.ID, "пункт", "")
	require.NoError(t, err)

	result := models.Result{InspectionID: 1, ChecklistItemID: item.ID, Status: models.ResultFulfilled}
	require.NoError(t, db.Create(&result).Error)

	require.NoError(t, cat.DeleteItem(item.ID))

	var count int64
	require.NoError(t, db.Model(&models.Result{}).
		Where("checklist_item_id = ?", item.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}
