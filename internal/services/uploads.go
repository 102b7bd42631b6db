package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"devsocial/internal/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// UploadService issues pre-signed S3 PUT URLs for post and profile images.
// The blob store is opaque to the rest of the system: callers only ever see
// the resulting public URL.
type UploadService struct {
	s3Client *s3.Client
	bucket   string
	baseURL  string
}

// NewUploadService creates an upload service against S3 or an
// S3-compatible endpoint.
func NewUploadService(region, bucket, accessKey, secretKey, endpoint string) (*UploadService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	if endpoint != "" {
		baseURL = fmt.Sprintf("%s/%s", strings.TrimRight(endpoint, "/"), bucket)
	}

	return &UploadService{s3Client: s3Client, bucket: bucket, baseURL: baseURL}, nil
}

// UploadResponse carries the pre-signed PUT URL and the public file URL
// the client should store once the upload succeeds.
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	ExpiresIn int    `json:"expires_in"`
}

// PresignImageUpload generates a pre-signed URL for uploading an image
func (s *UploadService) PresignImageUpload(ctx context.Context, userID, filename, contentType string) (*UploadResponse, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", errs.ErrValidation)
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	ext := path.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("images/%s/%s%s", userID, uuid.New().String(), ext)

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 5 * time.Minute
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		FileURL:   fmt.Sprintf("%s/%s", s.baseURL, key),
		ExpiresIn: 300,
	}, nil
}
