package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/limaJavier/schedulebuilder/internal/logger"
	"github.com/limaJavier/schedulebuilder/internal/requestid"
)

func NewRouter(l *zap.Logger, schedules *ScheduleHandler, metrics *MetricsHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestid.Middleware(), logger.GinMiddleware(l), metrics.Middleware())

	router.GET("/health", metrics.Health)
	router.GET("/metrics", metrics.Prometheus)
	router.POST("/schedules/build", schedules.Build)

	return router
}
