// Сводный отчёт по проверке: чистая проекция над снимком журнала
// итогов, без обращений к БД.
package report

import (
	"sort"

	"inspection-portal/internal/models"
)

type Summary struct {
	Fulfilled     int `json:"fulfilled"`
	NotFulfilled  int `json:"notFulfilled"`
	NotApplicable int `json:"notApplicable"`
}

type DetailRow struct {
	Index           int                 `json:"index"`
	ItemDescription string              `json:"itemDescription"`
	DesiredPhotoURL string              `json:"desiredPhotoUrl,omitempty"`
	Status          models.ResultStatus `json:"status,omitempty"`
	Comment         string              `json:"comment"`
	PhotoURL        string              `json:"photoUrl,omitempty"`
}

func Summarize(results []models.Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case models.ResultFulfilled:
			s.Fulfilled++
		case models.ResultNotFulfilled:
			s.NotFulfilled++
		case models.ResultNotApplicable:
			s.NotApplicable++
		}
	}
	return s
}

// DetailRows соединяет пункты чек-листа с итогами и выдаёт строки в
// порядке номеров пунктов. Пункт без итога даёт строку с пустым
// статусом.
func DetailRows(results []models.Result, items []models.ChecklistItem) []DetailRow {
	byItem := make(map[uint]models.Result, len(results))
	for _, r := range results {
		byItem[r.ChecklistItemID] = r
	}

	sorted := make([]models.ChecklistItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})

	rows := make([]DetailRow, 0, len(sorted))
	for _, item := range sorted {
		row := DetailRow{
			Index:           item.OrderIndex,
			ItemDescription: item.Description,
			DesiredPhotoURL: item.DesiredPhotoURL,
		}
		if r, ok := byItem[item.ID]; ok {
			row.Status = r.Status
			row.Comment = r.Comment
			row.PhotoURL = r.PhotoURL
		}
		rows = append(rows, row)
	}
	return rows
}
