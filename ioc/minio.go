package ioc

import (
	"context"
	"log"
	"time"

	"github.com/to404hanga/ctf_checker/pkg/minio"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

func InitMinIO(l loggerv2.Logger, endpoint string, useSSL bool, bucket string) *minio.MinIOService {
	svc, err := minio.NewMinIOService(l, endpoint, useSSL)
	if err != nil {
		log.Panicf("create minio client failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = svc.EnsureBucket(ctx, bucket); err != nil {
		log.Panicf("ensure minio bucket %s failed: %v", bucket, err)
	}
	return svc
}
