package biz

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	v1 "github.com/nimbuswatch/alerter/biz/handler/v1"
	"github.com/nimbuswatch/alerter/biz/midware"
)

func RegisterRouter(r *gin.Engine) {
	r.Use(midware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiv1 := r.Group("/api/v1")
	{
		apiv1.GET("/alerts", v1.GetAlerts)
		apiv1.POST("/alerts", v1.AddAlert)
		apiv1.DELETE("/alerts", v1.DeleteAlerts)
		apiv1.DELETE("/alerts/clear", v1.ClearAlerts)
		apiv1.PUT("/alerts/status", v1.EditAlertStatus)
		apiv1.GET("/alerts/summary", v1.GetAlertsSummary)
		apiv1.GET("/alerts/trend", v1.GetAlertsDayTrend)

		apiv1.POST("/reports", v1.AddNewAlertReport)
		apiv1.POST("/reports/cloud/:provider", v1.AddNewAlertReportFromCloud)
	}
}
