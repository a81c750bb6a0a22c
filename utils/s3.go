package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/timelessthreads/storefront/config"
)

var (
	S3Client      *s3.Client
	PresignClient *s3.PresignClient
)

// InitS3 initializes the S3 client
func InitS3() error {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(appConfig.AWSRegion),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config, %v", err)
	}

	S3Client = s3.NewFromConfig(cfg)
	PresignClient = s3.NewPresignClient(S3Client)
	Info("S3 client initialized")
	return nil
}

// GetPresignedURL generates a presigned URL for an object
func GetPresignedURL(ctx context.Context, objectKey string) (string, error) {
	if PresignClient == nil {
		if err := InitS3(); err != nil {
			return "", err
		}
	}

	request, err := PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(appConfig.AWSBucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(1*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %v", err)
	}

	return request.URL, nil
}

// PresignImageURLs generates presigned URLs for a slice of image keys.
// Entries that are already full http/https URLs are kept as is. S3 failures
// result in the original key being returned as fallback.
func PresignImageURLs(ctx context.Context, images []string) []string {
	var presignedURLs []string
	for _, img := range images {
		if strings.HasPrefix(img, "http") {
			presignedURLs = append(presignedURLs, img)
			continue
		}
		if url, err := GetPresignedURL(ctx, img); err == nil {
			presignedURLs = append(presignedURLs, url)
		} else {
			presignedURLs = append(presignedURLs, img)
		}
	}
	return presignedURLs
}
