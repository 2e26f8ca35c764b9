package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/services"
)

type SubjectHandler struct {
	svc *services.SubjectService
}

func NewSubjectHandler(svc *services.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		svc: svc,
	}
}

// Dates accept "YYYY-MM-DD", an ISO datetime or "Nd".
type updateSubjectRequest struct {
	PdfCount     *int    `json:"pdf_count"`
	TheoryDate   *string `json:"theory_date"`
	PracticeDate *string `json:"practice_date"`
}

type setDaysRequest struct {
	Session string `json:"session" binding:"required"`
	Days    int    `json:"days"`
}

type updateProgressRequest struct {
	SubjectName     string `json:"subject_name" binding:"required"`
	TableType       string `json:"table_type" binding:"required"`
	CurrentProgress int    `json:"current_progress"`
	TotalPdfs       int    `json:"total_pdfs"`
}

func (h *SubjectHandler) RegisterRoutes(router *gin.RouterGroup) {
	subjects := router.Group("/subjects")
	{
		subjects.GET("", h.List)
		subjects.POST("/reset", h.Reset)
		subjects.PUT("/:name", h.Update)
		subjects.PUT("/:name/days", h.SetDays)
	}

	progress := router.Group("/progress")
	{
		progress.GET("", h.ListProgress)
		progress.PUT("", h.UpdateProgress)
	}
}

func (h *SubjectHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *SubjectHandler) Update(c *gin.Context) {
	var req updateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	subject, err := h.svc.Update(c.Request.Context(), c.Param("name"), services.UpdateSubjectInput{
		PdfCount:     req.PdfCount,
		TheoryDate:   req.TheoryDate,
		PracticeDate: req.PracticeDate,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

func (h *SubjectHandler) SetDays(c *gin.Context) {
	var req setDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	subject, err := h.svc.SetDaysRemaining(c.Request.Context(), c.Param("name"), req.Session, req.Days)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

func (h *SubjectHandler) Reset(c *gin.Context) {
	if err := h.svc.Reset(c.Request.Context()); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SubjectHandler) ListProgress(c *gin.Context) {
	rows, err := h.svc.ListProgress(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *SubjectHandler) UpdateProgress(c *gin.Context) {
	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.svc.UpdateProgress(c.Request.Context(), services.UpdateProgressInput{
		SubjectName:     req.SubjectName,
		TableType:       req.TableType,
		CurrentProgress: req.CurrentProgress,
		TotalPdfs:       req.TotalPdfs,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
