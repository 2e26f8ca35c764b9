package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/services"
)

type BoardHandler struct {
	board    *services.BoardService
	calendar *services.CalendarService
	now      services.Clock
}

func NewBoardHandler(board *services.BoardService, calendar *services.CalendarService, now services.Clock) *BoardHandler {
	return &BoardHandler{
		board:    board,
		calendar: calendar,
		now:      now,
	}
}

func (h *BoardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/board", h.Board)
	router.GET("/calendar", h.Calendar)
}

func (h *BoardHandler) Board(c *gin.Context) {
	b, err := h.board.Build(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Calendar defaults to the current month when year or month is omitted.
func (h *BoardHandler) Calendar(c *gin.Context) {
	today := h.now()
	year, month := today.Year(), int(today.Month())

	var err error
	if raw := c.Query("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
	}
	if raw := c.Query("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
	}

	cal, err := h.calendar.Month(c.Request.Context(), year, time.Month(month))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cal)
}
