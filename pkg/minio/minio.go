package minio

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"taskrewards-platform/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Client = fx.Module("minio.client",
	fx.Provide(registerClient, NewStorage),
	fx.Invoke(registerRoutes),
)

func registerClient(c *config.Config) *minio.Client {
	client, err := minio.New(c.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.Minio.AccessKey, c.Minio.SecretKey, ""),
		Secure: c.Minio.Secure,
	})
	if err != nil {
		zap.L().Fatal("failed to create MinIO client", zap.Error(err))
	}
	exists, errBucketExists := client.BucketExists(context.Background(), c.Minio.BucketName)
	if errBucketExists != nil {
		zap.L().Fatal("failed to check if bucket exists", zap.Error(errBucketExists))
	}
	zap.L().Info("MinIO client initialized", zap.String("endpoint", c.Minio.Endpoint), zap.Bool("bucketExists", exists))
	return client
}

// Storage persists uploaded images and serves them back under /uploads/.
type Storage struct {
	client *minio.Client
	bucket string
}

func NewStorage(client *minio.Client, cfg *config.Config) *Storage {
	return &Storage{client: client, bucket: cfg.Minio.BucketName}
}

// Upload stores the file under <prefix>/<unix-ms>-<original-filename> and
// returns the public path it will be served from.
func (s *Storage) Upload(ctx context.Context, prefix string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := fmt.Sprintf("%s/%d-%s", prefix, time.Now().UnixMilli(), filepath.Base(fh.Filename))

	_, err = s.client.PutObject(ctx, s.bucket, key, f, fh.Size, minio.PutObjectOptions{
		ContentType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		return "", err
	}

	return "/uploads/" + key, nil
}

func (s *Storage) serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("object"), "/")

	obj, err := s.client.GetObject(c.Request.Context(), s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	c.DataFromReader(http.StatusOK, stat.Size, stat.ContentType, obj, nil)
}

func registerRoutes(r *gin.Engine, s *Storage) {
	r.GET("/uploads/*object", s.serve)
}
