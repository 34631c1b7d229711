package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes multipart（图片上传）用 upload 上限，其余请求用 json 上限；
// 超限在绑定时报错，由 ez 转成 400
func MaxBodyBytes(json, upload int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := json
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			n = upload
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
