package storage

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// keyPrefix is where receipt photos live inside the bucket
const keyPrefix = "uploads/tickets"

// S3Uploader handles uploading receipt images to S3
type S3Uploader struct {
	s3Client s3iface.S3API
	bucket   string
	region   string
}

// Config holds configuration for the S3 uploader
type Config struct {
	Region          string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

// NewSession creates an AWS session from static credentials. The same
// session backs both the S3 uploader and the DynamoDB repository.
func NewSession(config *Config) (*session.Session, error) {
	if config.AccessKeyID == "" || config.AccessKeySecret == "" || config.Region == "" {
		return nil, fmt.Errorf("AWS configuration is incomplete")
	}

	return session.NewSession(&aws.Config{
		Region:      aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
	})
}

// NewS3Uploader creates a new S3 uploader on an existing session
func NewS3Uploader(sess *session.Session, config *Config) (*S3Uploader, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	return &S3Uploader{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		region:   config.Region,
	}, nil
}

// UploadImage uploads a receipt image and returns its public URL
func (u *S3Uploader) UploadImage(imageData []byte, filename string) (string, error) {
	key := fmt.Sprintf("%s/%s", keyPrefix, filename)

	_, err := u.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(imageData),
		ContentType:   aws.String("image/jpeg"),
		ContentLength: aws.Int64(int64(len(imageData))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
	return publicURL, nil
}
