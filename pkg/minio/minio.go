package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

const (
	EnvMinIOAccessKeyID     = "MINIO_ACCESS_KEY_ID"
	EnvMinIOSecretAccessKey = "MINIO_SECRET_ACCESS_KEY"
)

// ObjectStorage 报表归档使用的对象存储能力
type ObjectStorage interface {
	PutObject(ctx context.Context, bucketName, objectKey string, reader io.Reader, size int64, contentType string) error
	ListObjectsWithPrefix(ctx context.Context, bucketName, prefix string) ([]ObjectInfo, error)
	DeleteObjects(ctx context.Context, bucketName string, objectKeys []string) error
}

type MinIOService struct {
	client   *minio.Client
	log      loggerv2.Logger
	endpoint string
	useSSL   bool
}

var _ ObjectStorage = (*MinIOService)(nil)

// NewMinIOService 访问密钥从环境变量读取
func NewMinIOService(log loggerv2.Logger, endpoint string, useSSL bool) (*MinIOService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv(EnvMinIOAccessKeyID), os.Getenv(EnvMinIOSecretAccessKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("NewMinIOService failed: %w", err)
	}

	return &MinIOService{
		client:   client,
		log:      log,
		endpoint: endpoint,
		useSSL:   useSSL,
	}, nil
}

// EnsureBucket bucket 不存在时创建
func (s *MinIOService) EnsureBucket(ctx context.Context, bucketName string) error {
	exists, err := s.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("EnsureBucket failed at check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err = s.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("EnsureBucket failed at make bucket: %w", err)
	}
	s.log.InfoContext(ctx, "Bucket created", logger.String("bucketName", bucketName))
	return nil
}

// PutObject 上传对象
func (s *MinIOService) PutObject(ctx context.Context, bucketName, objectKey string, reader io.Reader, size int64, contentType string) error {
	info, err := s.client.PutObject(ctx, bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", objectKey, err)
	}

	s.log.InfoContext(ctx, "Successfully put object",
		logger.String("bucketName", bucketName),
		logger.String("objectKey", objectKey),
		logger.Int64("size", info.Size),
	)
	return nil
}

// ObjectInfo 对象信息结构体
type ObjectInfo struct {
	Key          string    `json:"key"`          // 对象键
	Size         int64     `json:"size"`         // 文件大小
	LastModified time.Time `json:"lastModified"` // 最后修改时间
}

// ListObjectsWithPrefix 获取指定前缀的对象列表
func (s *MinIOService) ListObjectsWithPrefix(ctx context.Context, bucketName, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	objectCh := s.client.ListObjects(ctx, bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix: %w", object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}

	return objects, nil
}

// DeleteObjects 批量删除对象
func (s *MinIOService) DeleteObjects(ctx context.Context, bucketName string, objectKeys []string) error {
	if len(objectKeys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(objectKeys))
	for _, key := range objectKeys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	errorCh := s.client.RemoveObjects(ctx, bucketName, objectsCh, minio.RemoveObjectsOptions{})

	var errs []error
	for deleteError := range errorCh {
		if deleteError.Err != nil {
			errs = append(errs, fmt.Errorf("failed to delete object %s: %w", deleteError.ObjectName, deleteError.Err))
			s.log.ErrorContext(ctx, "Failed to delete object in batch",
				logger.Error(deleteError.Err),
				logger.String("objectName", deleteError.ObjectName),
			)
		}
	}

	s.log.InfoContext(ctx, "Batch delete completed",
		logger.String("bucketName", bucketName),
		logger.Int("totalObjects", len(objectKeys)),
		logger.Int("errorCount", len(errs)),
	)

	return errors.Join(errs...)
}
