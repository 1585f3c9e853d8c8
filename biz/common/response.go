package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// response codes, stable across API versions
const (
	SuccessCode = iota
	ParamInvalidErrorCode
	DBOperateErrorCode
	UnknownErrorCode
)

var errorDescriptions = map[int]string{
	SuccessCode:           "success",
	ParamInvalidErrorCode: "param invalid",
	DBOperateErrorCode:    "db operate error",
	UnknownErrorCode:      "unknown error",
}

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data"`
}

func CreateResponse(c *gin.Context, code int, data interface{}) {
	msg, ok := errorDescriptions[code]
	if !ok {
		msg = errorDescriptions[UnknownErrorCode]
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: msg,
		Data:    data,
	})
}
