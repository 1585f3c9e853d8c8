package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/nimbuswatch/alerter/biz"
	"github.com/nimbuswatch/alerter/boot"
	"github.com/nimbuswatch/alerter/infra"
	"github.com/nimbuswatch/alerter/infra/ylog"
	"github.com/nimbuswatch/alerter/internal/cronjob"
)

func init() {
	signal.Notify(infra.Sig, syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	if err := boot.Initialize(); err != nil {
		ylog.Fatalf("INIT", "initialize error %s", err.Error())
		return
	}

	//start server
	go ServerStart()

	<-infra.Sig
	cronjob.StopCronjob()
	close(infra.Quit)
}

func ServerStart() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	biz.RegisterRouter(router)
	go func() {
		ylog.Infof("[START_SERVER]", "Listening and serving on :%d", infra.HttpPort)
		err := router.Run(fmt.Sprintf(":%d", infra.HttpPort))
		ylog.Errorf("SRV_ERROR", err.Error())
	}()

	<-infra.Quit
}
