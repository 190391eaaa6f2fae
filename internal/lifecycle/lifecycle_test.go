package lifecycle

import (
	"fmt"
	"testing"
	"time"

	"inspection-portal/internal/apperr"
	"inspection-portal/internal/database"
	"inspection-portal/internal/ledger"
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

func newLifecycle(t *testing.T) (*Lifecycle, *gorm.DB, models.User) {
	t.Helper()
	db := testDB(t)
	lc := New(db, ledger.New(db))

	user := models.User{Username: "user", Name: "user", Email: "user@example.com", PasswordHash: "x", Role: models.RoleUser, Enabled: true}
	require.NoError(t, db.Create(&user).Error)
	return lc, db, user
}

var testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func TestCreatePlannedWithoutChecklist(t *testing.T) {
	lc, _, user := newLifecycle(t)

	inspection, err := lc.Create("склад №1", testDate, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlanned, inspection.Status)
	assert.Nil(t, inspection.ChecklistID)
	assert.Equal(t, user.ID, inspection.ResponsibleUser.ID)
}

func TestCreateValidation(t *testing.T) {
	lc, _, user := newLifecycle(t)

	_, err := lc.Create("   ", testDate, user.ID, nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = lc.Create("склад №1", testDate, 999, nil)
	assert.True(t, apperr.IsNotFound(err))

	unknown := uint(999)
	_, err = lc.Create("склад №1", testDate, user.ID, &unknown)
	assert.True(t, apperr.IsNotFound(err))
}

func TestStartIdempotent(t *testing.T) {
	lc, _, user := newLifecycle(t)
	inspection, err := lc.Create("склад №1", testDate, user.ID, nil)
	require.NoError(t, err)

	started, err := lc.Start(inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, started.Status)

	// повторный запуск ничего не меняет
	again, err := lc.Start(inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, again.Status)
}

func TestCompleteWithZeroResults(t *testing.T) {
	lc, _, user := newLifecycle(t)
	inspection, err := lc.Create("склад №1", testDate, user.ID, nil)
	require.NoError(t, err)

	// завершение без единого итога допустимо, прямо из PLANNED
	completed, err := lc.Complete(inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	// COMPLETED терминален, повторное завершение — no-op
	again, err := lc.Complete(inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, again.Status)
}

func TestStatusNeverRegresses(t *testing.T) {
	lc, _, user := newLifecycle(t)
	inspection, err := lc.Create("склад №1", testDate, user.ID, nil)
	require.NoError(t, err)

	_, err = lc.Start(inspection.ID)
	require.NoError(t, err)

	_, err = lc.SetStatus(inspection.ID, models.StatusPlanned)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = lc.Complete(inspection.ID)
	require.NoError(t, err)

	for _, s := range []models.InspectionStatus{models.StatusPlanned, models.StatusInProgress} {
		_, err = lc.SetStatus(inspection.ID, s)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "статус %s", s)
	}

	// запуск завершённой проверки — no-op, не откат
	current, err := lc.Start(inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, current.Status)
}

func TestSetStatusSameIsNoop(t *testing.T) {
	lc, _, user := newLifecycle(t)
	inspection, err := lc.Create("склад №1", testDate, user.ID, nil)
	require.NoError(t, err)

	same, err := lc.SetStatus(inspection.ID, models.StatusPlanned)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlanned, same.Status)
}

func TestUpdateCompletedForbidden(t *testing.T) {
	lc, _, user := newLifecycle(t)
	inspection, err := lc.Create("склад №1", testDate, user.ID, nil)
	require.NoError(t, err)
	_, err = lc.Complete(inspection.ID)
	require.NoError(t, err)

	name := "склад №2"
	_, err = lc.Update(inspection.ID, UpdateParams{FacilityName: &name})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdatePartialAndChecklistClear(t *testing.T) {
	lc, db, user := newLifecycle(t)

	checklist := models.Checklist{Name: "чек-лист"}
	require.NoError(t, db.Create(&checklist).Error)

	inspection, err := lc.Create("склад №1", testDate, user.ID, &checklist.ID)
	require.NoError(t, err)

	name := "склад №2"
	updated, err := lc.Update(inspection.ID, UpdateParams{FacilityName: &name})
	require.NoError(t, err)
	assert.Equal(t, "склад №2", updated.FacilityName)
	// чек-лист остался назначенным
	require.NotNil(t, updated.ChecklistID)
	assert.Equal(t, checklist.ID, *updated.ChecklistID)

	// явный null снимает чек-лист
	updated, err = lc.Update(inspection.ID, UpdateParams{ChecklistSet: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ChecklistID)
}

func TestDeleteCascadesResults(t *testing.T) {
	lc, db, user := newLifecycle(t)

	checklist := models.Checklist{Name: "чек-лист"}
	require.NoError(t, db.Create(&checklist).Error)
	item := models.ChecklistItem{ChecklistID: checklist.ID, Description: "пункт", OrderIndex: 1}
	require.NoError(t, db.Create(&item).Error)

	inspection, err := lc.Create("склад №1", testDate, user.ID, &checklist.ID)
	require.NoError(t, err)

	result := models.Result{InspectionID: inspection.ID, ChecklistItemID: item.ID, Status: models.ResultFulfilled}
	require.NoError(t, db.Create(&result).Error)

	require.NoError(t, lc.Delete(inspection.ID))

	_, err = lc.Get(inspection.ID)
	assert.True(t, apperr.IsNotFound(err))

	var count int64
	require.NoError(t, db.Model(&models.Result{}).
		Where("inspection_id = ?", inspection.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestStatistics(t *testing.T) {
	lc, _, user := newLifecycle(t)

	for i := 0; i < 3; i++ {
		_, err := lc.Create(fmt.Sprintf("объект %d", i+1), testDate, user.ID, nil)
		require.NoError(t, err)
	}
	inspections, err := lc.List()
	require.NoError(t, err)
	_, err = lc.Start(inspections[0].ID)
	require.NoError(t, err)
	_, err = lc.Complete(inspections[1].ID)
	require.NoError(t, err)

	stats, err := lc.GetStatistics()
	require.NoError(t, err)
	assert.Equal(t, Statistics{Planned: 1, InProgress: 1, Completed: 1, Total: 3}, stats)
}

func TestMissingResults(t *testing.T) {
	lc, db, user := newLifecycle(t)

	checklist := models.Checklist{Name: "чек-лист"}
	require.NoError(t, db.Create(&checklist).Error)
	items := make([]models.ChecklistItem, 2)
	for i := range items {
		items[i] = models.ChecklistItem{ChecklistID: checklist.ID, Description: fmt.Sprintf("пункт %d", i+1), OrderIndex: i + 1}
		require.NoError(t, db.Create(&items[i]).Error)
	}

	inspection, err := lc.Create("склад №1", testDate, user.ID, &checklist.ID)
	require.NoError(t, err)

	missing, err := lc.MissingResults(inspection.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, missing)

	result := models.Result{InspectionID: inspection.ID, ChecklistItemID: items[0].ID, Status: models.ResultFulfilled}
	require.NoError(t, db.Create(&result).Error)

	missing, err = lc.MissingResults(inspection.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, missing)

	// проверка без чек-листа — нечего пропускать
	bare, err := lc.Create("склад №2", testDate, user.ID, nil)
	require.NoError(t, err)
	missing, err = lc.MissingResults(bare.ID)
	require.NoError(t, err)
	assert.Zero(t, missing)
}

func TestListByStatus(t *testing.T) {
	lc, _, user := newLifecycle(t)

	a, err := lc.Create("объект А", testDate, user.ID, nil)
	require.NoError(t, err)
	_, err = lc.Create("объект Б", testDate, user.ID, nil)
	require.NoError(t, err)
	_, err = lc.Start(a.ID)
	require.NoError(t, err)

	planned, err := lc.ListByStatus(models.StatusPlanned)
	require.NoError(t, err)
	require.Len(t, planned, 1)
	assert.Equal(t, "объект Б", planned[0].FacilityName)

	_, err = lc.ListByStatus(models.InspectionStatus("UNKNOWN"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
