package utils

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Manav-Sonawane/reclaim-backend/config"
)

var (
	s3Client     *s3.Client
	s3ClientOnce sync.Once
	s3ClientErr  error
)

func storageClient(ctx context.Context) (*s3.Client, error) {
	s3ClientOnce.Do(func() {
		cfg := config.App
		if cfg.R2AccountID == "" || cfg.R2AccessKey == "" || cfg.R2Bucket == "" {
			s3ClientErr = fmt.Errorf("object storage is not configured")
			return
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion("auto"),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
			),
		)
		if err != nil {
			s3ClientErr = err
			return
		}

		endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
		s3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	})
	return s3Client, s3ClientErr
}

// UploadImage stores the image bytes in the R2 bucket under a unique key
// and returns the public URL.
func UploadImage(ctx context.Context, originalName, contentType string, data []byte) (string, error) {
	client, err := storageClient(ctx)
	if err != nil {
		return "", err
	}

	cfg := config.App
	key := uuid.NewString() + filepath.Ext(originalName)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(cfg.R2Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", cfg.R2PublicURL, key), nil
}
