package services

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultPresignedURLExpiry = time.Hour

type StorageService interface {
	GetDownloadURL(ctx context.Context, objectKey string) (string, error)
	GetUploadURL(ctx context.Context, objectKey string, contentType string) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

type S3StorageService struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
}

func NewS3StorageService(cfg S3Config) (*S3StorageService, error) {
	awsSDKConfig, err := awsCfg.LoadDefaultConfig(
		context.Background(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing is required by most S3-compatible
			// services (MinIO, Spaces).
			o.UsePathStyle = true
		}
	})

	log.Printf("S3 storage initialized for bucket %s", cfg.Bucket)

	return &S3StorageService{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
	}, nil
}

func (s *S3StorageService) GetDownloadURL(ctx context.Context, objectKey string) (string, error) {
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(defaultPresignedURLExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *S3StorageService) GetUploadURL(ctx context.Context, objectKey string, contentType string) (string, error) {
	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(defaultPresignedURLExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *S3StorageService) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}
