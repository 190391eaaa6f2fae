package handlers

import (
	"net/http"

	"inspection-portal/internal/ledger"
	"inspection-portal/internal/lifecycle"
	"inspection-portal/internal/models"

	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	ledger    *ledger.Ledger
	lifecycle *lifecycle.Lifecycle
}

func NewResultHandler(l *ledger.Ledger, lc *lifecycle.Lifecycle) *ResultHandler {
	return &ResultHandler{ledger: l, lifecycle: lc}
}

func (h *ResultHandler) ListByInspection(c *gin.Context) {
	inspectionID, ok := parseID(c, "inspectionId")
	if !ok {
		return
	}

	if _, err := h.lifecycle.Get(inspectionID); err != nil {
		writeError(c, err)
		return
	}

	results, err := h.ledger.ForInspection(inspectionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

type recordResultRequest struct {
	ChecklistItemID uint    `json:"checklistItemId"`
	Status          *string `json:"status"`
	Comment         *string `json:"comment"`
	PhotoURL        *string `json:"photoUrl"`
}

// Record — upsert итога по паре (проверка, пункт). Отсутствующее в
// запросе поле не трогает сохранённое значение. Запись по
// запланированной проверке переводит её в IN_PROGRESS.
func (h *ResultHandler) Record(c *gin.Context) {
	inspectionID, ok := parseID(c, "inspectionId")
	if !ok {
		return
	}

	var req recordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные"})
		return
	}
	if req.ChecklistItemID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "укажите пункт чек-листа"})
		return
	}

	inspection, err := h.lifecycle.Get(inspectionID)
	if err != nil {
		writeError(c, err)
		return
	}

	// вход в режим выполнения
	if inspection.Status == models.StatusPlanned {
		if _, err := h.lifecycle.Start(inspectionID); err != nil {
			writeError(c, err)
			return
		}
	}

	var status *models.ResultStatus
	if req.Status != nil {
		s := models.ResultStatus(*req.Status)
		status = &s
	}

	result, err := h.ledger.Record(inspectionID, req.ChecklistItemID, status, req.Comment, req.PhotoURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateResultRequest struct {
	Status   *string `json:"status"`
	Comment  *string `json:"comment"`
	PhotoURL *string `json:"photoUrl"`
}

func (h *ResultHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные"})
		return
	}

	var status *models.ResultStatus
	if req.Status != nil {
		s := models.ResultStatus(*req.Status)
		status = &s
	}

	result, err := h.ledger.Update(id, status, req.Comment, req.PhotoURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ResultHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.ledger.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
