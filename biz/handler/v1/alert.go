package v1

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nimbuswatch/alerter/biz/common"
	"github.com/nimbuswatch/alerter/internal/alert"
	"github.com/nimbuswatch/alerter/internal/alertservice"
	"github.com/nimbuswatch/alerter/internal/cronjob"
)

var svc *alertservice.Service

// Init wires the lifecycle facade into the handler package.
func Init(s *alertservice.Service) {
	svc = s
}

type AlertQueryRequest struct {
	common.PageRequest
	Ids       string `form:"ids"`
	MonitorId int64  `form:"monitor_id"`
	Priority  *int   `form:"priority"`
	Status    *int   `form:"status"`
	Content   string `form:"content"`
}

type AlertIdsRequest struct {
	Ids []string `json:"ids" binding:"required"`
}

type AlertStatusRequest struct {
	Status int      `json:"status" binding:"numeric,min=0,max=2"`
	Ids    []string `json:"ids" binding:"required"`
}

func GetAlerts(c *gin.Context) {
	var req AlertQueryRequest
	if err := c.BindQuery(&req); err != nil {
		common.CreateResponse(c, common.ParamInvalidErrorCode, err.Error())
		return
	}

	var ids []string
	if req.Ids != "" {
		ids = strings.Split(req.Ids, ",")
	}

	page, err := svc.GetAlerts(c, ids, req.MonitorId, req.Priority, req.Status,
		req.Content, req.OrderKey, req.Order, req.Page, req.PageSize)
	if err != nil {
		common.CreateResponse(c, common.DBOperateErrorCode, err.Error())
		return
	}

	common.CreateResponse(c, common.SuccessCode, page)
}

func AddAlert(c *gin.Context) {
	var a alert.Alert
	if err := c.BindJSON(&a); err != nil {
		common.CreateResponse(c, common.ParamInvalidErrorCode, err.Error())
		return
	}

	if err := svc.AddAlert(c, &a); err != nil {
		common.CreateResponse(c, common.DBOperateErrorCode, err.Error())
		return
	}

	common.CreateResponse(c, common.SuccessCode, a)
}

func DeleteAlerts(c *gin.Context) {
	var req AlertIdsRequest
	if err := c.BindJSON(&req); err != nil {
		common.CreateResponse(c, common.ParamInvalidErrorCode, err.Error())
		return
	}

	if err := svc.DeleteAlerts(c, req.Ids); err != nil {
		common.CreateResponse(c, common.DBOperateErrorCode, err.Error())
		return
	}

	common.CreateResponse(c, common.SuccessCode, nil)
}

func ClearAlerts(c *gin.Context) {
	if err := svc.ClearAlerts(c); err != nil {
		common.CreateResponse(c, common.DBOperateErrorCode, err.Error())
		return
	}

	common.CreateResponse(c, common.SuccessCode, nil)
}

func EditAlertStatus(c *gin.Context) {
	var req AlertStatusRequest
	if err := c.BindJSON(&req); err != nil {
		common.CreateResponse(c, common.ParamInvalidErrorCode, err.Error())
		return
	}

	if err := svc.EditAlertStatus(c, req.Status, req.Ids); err != nil {
		common.CreateResponse(c, common.DBOperateErrorCode, err.Error())
		return
	}

	common.CreateResponse(c, common.SuccessCode, nil)
}

func GetAlertsSummary(c *gin.Context) {
	summary, err := svc.GetAlertsSummary(c)
	if err != nil {
		common.CreateResponse(c, common.DBOperateErrorCode, err.Error())
		return
	}

	common.CreateResponse(c, common.SuccessCode, summary)
}

type AlertDayTrendRequest struct {
	DayNum int `form:"day_num,default=7" binding:"numeric,min=1,max=90"`
}

func GetAlertsDayTrend(c *gin.Context) {
	var req AlertDayTrendRequest
	if err := c.BindQuery(&req); err != nil {
		common.CreateResponse(c, common.ParamInvalidErrorCode, err.Error())
		return
	}

	stats, err := cronjob.QueryDayStats(c, time.Now().Unix(), req.DayNum)
	if err != nil {
		common.CreateResponse(c, common.DBOperateErrorCode, err.Error())
		return
	}

	common.CreateResponse(c, common.SuccessCode, stats)
}
