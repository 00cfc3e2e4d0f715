package controllers

import (
	"github.com/go-playground/validator/v10"

	"github.com/shikhar1verma/chat-contract-pdf/internal/config"
	"github.com/shikhar1verma/chat-contract-pdf/internal/rag"
	"github.com/shikhar1verma/chat-contract-pdf/internal/repository"
	"github.com/shikhar1verma/chat-contract-pdf/internal/services"
)

// Dependencies 控制器依赖集合。
// Beego每个请求都会new一个controller实例，依赖只能挂在包级变量上，
// 由bootstrap在注册路由前调用Setup注入一次。
type Dependencies struct {
	Config     *config.Config
	Registry   repository.UploadRegistry
	Dispatcher *services.Dispatcher
	Ingest     *services.IngestService
	Chat       *services.ChatService
	Store      rag.ChunkStore
}

var (
	deps     Dependencies
	validate = validator.New()
)

// Setup 注入控制器依赖，必须在web.Run之前调用
func Setup(d Dependencies) {
	deps = d
}
