package ez

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-forum/internal/core/storage"
)

// FormFile 取 multipart 中可选的单个文件；没有文件时返回 nil。
// 调用方在用完 Upload 后执行 done 关闭文件。
func FormFile(c *gin.Context, field string) (up *storage.Upload, done func(), err error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, BadRequest("invalid multipart form: " + bindMessage(err))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, BadRequest("cannot read uploaded file")
	}
	return &storage.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
