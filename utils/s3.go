package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Avatar images live in an S3-compatible bucket (AWS S3, Cloudflare R2,
// MinIO). S3_ENDPOINT is optional; when empty the SDK targets AWS proper.

func avatarBucketConfig() (aws.Config, error) {
	accessKey := os.Getenv("S3_ACCESS_KEY_ID")
	secretKey := os.Getenv("S3_SECRET_ACCESS_KEY")
	if accessKey == "" || secretKey == "" {
		return aws.Config{}, fmt.Errorf("S3_ACCESS_KEY_ID or S3_SECRET_ACCESS_KEY is not set")
	}

	region := os.Getenv("S3_REGION")
	if region == "" {
		region = "auto"
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load S3 config: %w", err)
	}
	return cfg, nil
}

func avatarBucketClient() (*s3.Client, error) {
	cfg, err := avatarBucketConfig()
	if err != nil {
		return nil, err
	}
	endpoint := os.Getenv("S3_ENDPOINT")
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return client, nil
}

func avatarBucket() (string, error) {
	bucket := os.Getenv("S3_BUCKET_NAME")
	if bucket == "" {
		return "", fmt.Errorf("S3_BUCKET_NAME is not set")
	}
	return bucket, nil
}

// UploadAvatar stores an avatar object in the bucket.
func UploadAvatar(objectName string, file io.Reader) error {
	bucket, err := avatarBucket()
	if err != nil {
		return err
	}
	client, err := avatarBucketClient()
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(path.Ext(objectName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectName),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("avatar upload failed: %w", err)
	}
	return nil
}

// AvatarSignedURL returns a presigned GET URL for the given object.
func AvatarSignedURL(objectName string, expirySeconds int64) (string, error) {
	bucket, err := avatarBucket()
	if err != nil {
		return "", err
	}
	client, err := avatarBucketClient()
	if err != nil {
		return "", err
	}

	presigner := s3.NewPresignClient(client)
	presigned, err := presigner.PresignGetObject(context.TODO(),
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(objectName),
		},
		func(po *s3.PresignOptions) {
			po.Expires = time.Duration(expirySeconds) * time.Second
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign avatar URL: %w", err)
	}
	return presigned.URL, nil
}

// DeleteAvatar removes an avatar object from the bucket.
func DeleteAvatar(objectName string) error {
	bucket, err := avatarBucket()
	if err != nil {
		return err
	}
	client, err := avatarBucketClient()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return fmt.Errorf("avatar delete failed: %w", err)
	}
	return nil
}
