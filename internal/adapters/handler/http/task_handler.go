package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/services"
)

type TaskHandler struct {
	svc *services.TaskService
}

func NewTaskHandler(svc *services.TaskService) *TaskHandler {
	return &TaskHandler{
		svc: svc,
	}
}

type createTaskRequest struct {
	Text          string   `json:"text" binding:"required"`
	Numerator     int      `json:"numerator"`
	Denominator   int      `json:"denominator"`
	DaysRemaining *int     `json:"days_remaining"`
	DueDate       *string  `json:"due_date"`
	URL           string   `json:"url"`
	SubTopics     []string `json:"sub_topics"`
}

type updateTaskRequest struct {
	Text          *string   `json:"text"`
	Numerator     *int      `json:"numerator"`
	Denominator   *int      `json:"denominator"`
	DaysRemaining *int      `json:"days_remaining"`
	DueDate       *string   `json:"due_date"`
	URL           *string   `json:"url"`
	SubTopics     *[]string `json:"sub_topics"`
}

func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/tasks")
	{
		tasks.GET("", h.List)
		tasks.POST("", h.Create)
		tasks.PUT("/:id", h.Update)
		tasks.DELETE("/:id", h.Delete)
	}
}

func (h *TaskHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	task, err := h.svc.Create(c.Request.Context(), services.CreateTaskInput{
		Text:          req.Text,
		Numerator:     req.Numerator,
		Denominator:   req.Denominator,
		DaysRemaining: req.DaysRemaining,
		DueDate:       req.DueDate,
		URL:           req.URL,
		SubTopics:     req.SubTopics,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	task, err := h.svc.Update(c.Request.Context(), c.Param("id"), services.UpdateTaskInput{
		Text:          req.Text,
		Numerator:     req.Numerator,
		Denominator:   req.Denominator,
		DaysRemaining: req.DaysRemaining,
		DueDate:       req.DueDate,
		URL:           req.URL,
		SubTopics:     req.SubTopics,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
