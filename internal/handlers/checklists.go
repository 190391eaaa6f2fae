package handlers

import (
	"net/http"

	"inspection-portal/internal/catalog"

	"github.com/gin-gonic/gin"
)

type ChecklistHandler struct {
	catalog *catalog.Catalog
}

func NewChecklistHandler(cat *catalog.Catalog) *ChecklistHandler {
	return &ChecklistHandler{catalog: cat}
}

func (h *ChecklistHandler) List(c *gin.Context) {
	checklists, err := h.catalog.ListChecklists()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, checklists)
}

func (h *ChecklistHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	checklist, err := h.catalog.GetChecklist(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, checklist)
}

func (h *ChecklistHandler) Items(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := h.catalog.ItemsOf(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type createChecklistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ChecklistHandler) Create(c *gin.Context) {
	var req createChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные"})
		return
	}

	checklist, err := h.catalog.CreateChecklist(req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checklist)
}

type updateChecklistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *ChecklistHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные"})
		return
	}

	checklist, err := h.catalog.UpdateChecklist(id, req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, checklist)
}

func (h *ChecklistHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteChecklist(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addItemRequest struct {
	Description     string `json:"description"`
	DesiredPhotoURL string `json:"desiredPhotoUrl"`
}

func (h *ChecklistHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные"})
		return
	}

	item, err := h.catalog.AddItem(id, req.Description, req.DesiredPhotoURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

type updateItemRequest struct {
	Description     *string `json:"description"`
	DesiredPhotoURL *string `json:"desiredPhotoUrl"`
}

func (h *ChecklistHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные"})
		return
	}

	item, err := h.catalog.UpdateItem(itemID, req.Description, req.DesiredPhotoURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ChecklistHandler) DeleteItem(c *gin.Context) {
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	if err := h.catalog.DeleteItem(itemID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
