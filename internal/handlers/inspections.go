package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"inspection-portal/internal/catalog"
	"inspection-portal/internal/ledger"
	"inspection-portal/internal/lifecycle"
	"inspection-portal/internal/models"
	"inspection-portal/internal/report"

	"github.com/gin-gonic/gin"
)

type InspectionHandler struct {
	lifecycle *lifecycle.Lifecycle
	catalog   *catalog.Catalog
	ledger    *ledger.Ledger
}

func NewInspectionHandler(lc *lifecycle.Lifecycle, cat *catalog.Catalog, l *ledger.Ledger) *InspectionHandler {
	return &InspectionHandler{lifecycle: lc, catalog: cat, ledger: l}
}

func (h *InspectionHandler) List(c *gin.Context) {
	inspections, err := h.lifecycle.List()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inspections)
}

func (h *InspectionHandler) ListByStatus(c *gin.Context) {
	status := models.InspectionStatus(c.Param("status"))
	inspections, err := h.lifecycle.ListByStatus(status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inspections)
}

func (h *InspectionHandler) Statistics(c *gin.Context) {
	stats, err := h.lifecycle.GetStatistics()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *InspectionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	inspection, err := h.lifecycle.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inspection)
}

type createInspectionRequest struct {
	FacilityName      string `json:"facilityName"`
	InspectionDate    string `json:"inspectionDate"`
	ResponsibleUserID uint   `json:"responsibleUserId"`
	ChecklistID       *uint  `json:"checklistId"`
}

func (h *InspectionHandler) Create(c *gin.Context) {
	var req createInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные"})
		return
	}

	date, err := time.Parse(time.DateOnly, req.InspectionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "дата проверки в формате ГГГГ-ММ-ДД"})
		return
	}
	if req.ResponsibleUserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "укажите ответственного"})
		return
	}

	inspection, err := h.lifecycle.Create(req.FacilityName, date, req.ResponsibleUserID, req.ChecklistID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inspection)
}

type updateInspectionRequest struct {
	FacilityName      *string `json:"facilityName"`
	InspectionDate    *string `json:"inspectionDate"`
	ResponsibleUserID *uint   `json:"responsibleUserId"`
	// RawMessage различает отсутствующее поле и явный null:
	// null снимает чек-лист с проверки
	ChecklistID json.RawMessage `json:"checklistId"`
}

func (h *InspectionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные"})
		return
	}

	params := lifecycle.UpdateParams{
		FacilityName:      req.FacilityName,
		ResponsibleUserID: req.ResponsibleUserID,
	}

	if req.InspectionDate != nil {
		date, err := time.Parse(time.DateOnly, *req.InspectionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "дата проверки в формате ГГГГ-ММ-ДД"})
			return
		}
		params.InspectionDate = &date
	}

	if len(req.ChecklistID) > 0 {
		params.ChecklistSet = true
		if string(req.ChecklistID) != "null" {
			var checklistID uint
			if err := json.Unmarshal(req.ChecklistID, &checklistID); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор чек-листа"})
				return
			}
			params.ChecklistID = &checklistID
		}
	}

	inspection, err := h.lifecycle.Update(id, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inspection)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus двигает проверку по жизненному циклу. При завершении в
// ответе возвращается число пунктов без итога — мягкое предупреждение,
// завершению оно не мешает.
func (h *InspectionHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "укажите статус"})
		return
	}

	inspection, err := h.lifecycle.SetStatus(id, models.InspectionStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{"inspection": inspection}
	if inspection.Status == models.StatusCompleted {
		missing, err := h.lifecycle.MissingResults(id)
		if err != nil {
			writeError(c, err)
			return
		}
		resp["missingResults"] = missing
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InspectionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.lifecycle.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Report отдаёт сводку и построчную расшифровку итогов проверки.
func (h *InspectionHandler) Report(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inspection, err := h.lifecycle.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	results, err := h.ledger.ForInspection(id)
	if err != nil {
		writeError(c, err)
		return
	}

	var items []models.ChecklistItem
	if inspection.ChecklistID != nil {
		items, err = h.catalog.ItemsOf(*inspection.ChecklistID)
		if err != nil {
			writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"inspection": inspection,
		"summary":    report.Summarize(results),
		"rows":       report.DetailRows(results, items),
	})
}
