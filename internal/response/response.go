package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/limaJavier/schedulebuilder/internal/apperrors"
	"github.com/limaJavier/schedulebuilder/internal/requestid"
	"github.com/limaJavier/schedulebuilder/pkg/model"
)

// Context keys set by Plan, read back by the request logger.
const (
	PlanIDKey   = "plan_id"
	FeasibleKey = "feasible"
)

// Envelope is the body of every schedule API response.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *apperrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Plan answers 200 for feasible and infeasible plans alike; meta repeats the verdict and the search effort.
func Plan(c *gin.Context, plan *model.Plan) {
	c.Set(PlanIDKey, plan.ID)
	c.Set(FeasibleKey, plan.Feasible)

	meta := withRequestID(c, map[string]interface{}{
		"plan_id":    plan.ID,
		"feasible":   plan.Feasible,
		"nodes":      plan.Search.Nodes,
		"backtracks": plan.Search.Backtracks,
	})
	JSON(c, http.StatusOK, plan, meta)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	envelope := Envelope{Error: appErr}
	if meta := withRequestID(c, map[string]interface{}{}); len(meta) > 0 {
		envelope.Meta = meta
	}
	c.JSON(appErr.Status, envelope)
}

func withRequestID(c *gin.Context, meta map[string]interface{}) map[string]interface{} {
	if reqID := requestid.Value(c); reqID != "" {
		meta["request_id"] = reqID
	}
	return meta
}
