package main

import (
	"log"
	"strconv"

	"github.com/beego/beego/v2/server/web"
	"go.uber.org/zap"

	"github.com/shikhar1verma/chat-contract-pdf/app/bootstrap"
	"github.com/shikhar1verma/chat-contract-pdf/internal/logger"
)

func main() {
	app, err := bootstrap.Init()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer app.Shutdown()

	web.BConfig.AppName = "chat-contract-pdf"
	web.BConfig.CopyRequestBody = true
	web.BConfig.MaxMemory = app.Config.MaxUploadBytes()
	web.BConfig.MaxUploadSize = app.Config.MaxUploadBytes()
	if port, err := strconv.Atoi(app.Config.Server.Port); err == nil {
		web.BConfig.Listen.HTTPPort = port
	}

	logger.Info("Starting chat-contract-pdf service",
		zap.Int("port", web.BConfig.Listen.HTTPPort))
	web.Run()
}
