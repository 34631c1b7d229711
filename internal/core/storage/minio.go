// Package storage 餐厅图片与用户头像的对象存储（S3 兼容，minio 客户端）。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrDisabled 未配置存储时上传会返回该错误
var ErrDisabled = errors.New("image storage disabled")

// Upload 一次上传的文件
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore 保存图片并返回可访问的 URL
type ImageStore interface {
	Put(ctx context.Context, folder string, up Upload) (string, error)
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	PublicURL string // 为空则由 endpoint + bucket 拼接
}

type MinioStore struct {
	cfg    Config
	client *minio.Client
}

func NewMinio(cfg Config) (*MinioStore, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	cl, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	if cfg.PublicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		cfg.PublicURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.Bucket)
	}
	return &MinioStore{cfg: cfg, client: cl}, nil
}

func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *MinioStore) Put(ctx context.Context, folder string, up Upload) (string, error) {
	key := ObjectKey(folder, up.Filename)
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, up.Body, up.Size,
		minio.PutObjectOptions{ContentType: up.ContentType})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + key, nil
}

// ObjectKey folder/uuid.ext，避免用户文件名冲突；ext 取自 SniffImage 改写后的文件名
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}

// Disabled 未配置 endpoint 时使用
type Disabled struct{}

func (Disabled) Put(context.Context, string, Upload) (string, error) { return "", ErrDisabled }
