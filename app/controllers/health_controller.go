package controllers

import "net/http"

// HealthController 健康检查与根路径
type HealthController struct {
	BaseController
}

// Root 服务自描述
// @router / [get]
func (c *HealthController) Root() {
	c.JSONSuccess(map[string]interface{}{
		"service": "chat-contract-pdf",
		"status":  "running",
	})
}

// Health 健康检查，向量存储不可达时报503
// @router /health [get]
func (c *HealthController) Health() {
	if deps.Store != nil && !deps.Store.Ready() {
		c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "degraded",
			"detail": "vector store unreachable",
		})
		return
	}
	c.JSONSuccess(map[string]interface{}{
		"status": "ok",
	})
}
