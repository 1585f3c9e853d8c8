package v1

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/nimbuswatch/alerter/biz/common"
	"github.com/nimbuswatch/alerter/internal/alert"
)

// AddNewAlertReport ingests one internal threshold-engine report.
func AddNewAlertReport(c *gin.Context) {
	var report alert.Report
	if err := c.BindJSON(&report); err != nil {
		common.CreateResponse(c, common.ParamInvalidErrorCode, err.Error())
		return
	}

	if err := svc.AddNewAlertReport(c, &report); err != nil {
		common.CreateResponse(c, common.DBOperateErrorCode, err.Error())
		return
	}

	common.CreateResponse(c, common.SuccessCode, nil)
}

// AddNewAlertReportFromCloud ingests a third-party webhook body. The
// provider comes from the path, the payload stays opaque here, only the
// matching adapter understands it.
func AddNewAlertReportFromCloud(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		common.CreateResponse(c, common.ParamInvalidErrorCode, "provider is required")
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.CreateResponse(c, common.ParamInvalidErrorCode, err.Error())
		return
	}

	if err := svc.AddNewAlertReportFromCloud(c, provider, payload); err != nil {
		common.CreateResponse(c, common.ParamInvalidErrorCode, err.Error())
		return
	}

	common.CreateResponse(c, common.SuccessCode, nil)
}
