package storage

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresignedURL(t *testing.T) {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("minio", "minio123", ""),
		BaseEndpoint: aws.String("http://localhost:9000"),
		UsePathStyle: true,
	})
	storage := &S3Storage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        "goalweek",
	}

	url, err := storage.PresignedURL(context.Background(), "summaries/2024-06-02.json", 24*time.Hour)
	require.NoError(t, err)

	assert.Contains(t, url, "http://localhost:9000/goalweek/summaries/2024-06-02.json")
	assert.Contains(t, url, "X-Amz-Expires=86400")
}
