package storage

import (
	"bytes"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage 上传内容不是允许的图片格式
var ErrNotImage = errors.New("not an allowed image type")

// sniffLen mimetype 默认读取的头部长度
const sniffLen = 3072

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// SniffImage 按文件内容判断类型，不信任客户端的文件名和 Content-Type。
// 返回的 Upload 里 ContentType 与扩展名都来自检测结果，Body 仍可完整读出。
func SniffImage(up Upload) (Upload, error) {
	if up.Body == nil {
		return up, ErrNotImage
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(up.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return up, err
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	allowed := false
	for _, t := range imageTypes {
		if mt.Is(t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return up, ErrNotImage
	}

	base := strings.TrimSuffix(path.Base(up.Filename), path.Ext(up.Filename))
	if base == "" || base == "." || base == "/" {
		base = "image"
	}
	up.Filename = base + mt.Extension()
	up.ContentType = mt.String()
	up.Body = io.MultiReader(bytes.NewReader(head), up.Body)
	return up, nil
}
