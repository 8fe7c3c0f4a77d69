package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	app "coffeemesh/internal/application/kitchen"
	"coffeemesh/pkg/logger"
)

// ScheduleHandler exposes the kitchen schedules API.
type ScheduleHandler struct {
	svc *app.Service
	log logger.Logger
}

func NewScheduleHandler(svc *app.Service, log logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, log: log}
}

type scheduleOrderRequest struct {
	Order []app.Item `json:"order" binding:"required,min=1,dive"`
}

func (h *ScheduleHandler) respondError(c *gin.Context, err error) {
	var notFound *app.NotFoundError
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, app.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req scheduleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.svc.Create(req.Order)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

func (h *ScheduleHandler) GetSchedules(c *gin.Context) {
	var q app.ListQuery
	if raw, ok := c.GetQuery("progress"); ok {
		progress, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be a boolean"})
			return
		}
		q.Progress = &progress
	}
	if raw, ok := c.GetQuery("since"); ok {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be an RFC3339 timestamp"})
			return
		}
		q.Since = &since
	}
	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		q.Limit = &limit
	}

	c.JSON(http.StatusOK, gin.H{"schedules": h.svc.List(q)})
}

func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.svc.Get(c.Param("schedule_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	var req scheduleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.svc.UpdateItems(c.Param("schedule_id"), req.Order)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	if err := h.svc.Delete(c.Param("schedule_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) CancelSchedule(c *gin.Context) {
	schedule, err := h.svc.Cancel(c.Param("schedule_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) GetScheduleStatus(c *gin.Context) {
	status, err := h.svc.Status(c.Param("schedule_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
