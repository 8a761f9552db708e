package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/limaJavier/schedulebuilder/internal/apperrors"
	"github.com/limaJavier/schedulebuilder/internal/response"
	"github.com/limaJavier/schedulebuilder/pkg/model"
)

type schedulePlanner interface {
	Plan(ctx context.Context, req model.ScheduleRequest) (*model.Plan, error)
}

// ScheduleHandler exposes the schedule building endpoint.
type ScheduleHandler struct {
	service schedulePlanner
}

func NewScheduleHandler(svc schedulePlanner) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Build answers 200 for both feasible and infeasible plans; only request, data and budget problems are errors.
func (h *ScheduleHandler) Build(c *gin.Context) {
	var req model.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation, "invalid schedule payload"))
		return
	}

	plan, err := h.service.Plan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Plan(c, plan)
}
