package middleware

import (
	"github.com/beego/beego/v2/server/web"
	beecontext "github.com/beego/beego/v2/server/web/context"
)

// SecurityHeaders 安全头中间件
func SecurityHeaders() web.FilterFunc {
	return func(ctx *beecontext.Context) {
		headers := map[string]string{
			"X-Content-Type-Options": "nosniff",
			"X-Frame-Options":        "DENY",
			"X-XSS-Protection":       "1; mode=block",
			"Referrer-Policy":        "strict-origin-when-cross-origin",
		}
		for key, value := range headers {
			ctx.Output.Header(key, value)
		}
	}
}
