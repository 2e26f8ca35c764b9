package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/services"
)

type ExportHandler struct {
	svc *services.ExportService
}

func NewExportHandler(svc *services.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	export := router.Group("/export")
	{
		export.GET("/board.xlsx", h.Download)
		export.POST("/snapshots", h.Snapshot)
	}
}

func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.svc.Export(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h *ExportHandler) Snapshot(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snap)
}
