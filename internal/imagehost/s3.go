// Package imagehost stores uploaded project images in an S3-compatible bucket
// and hands back the public URL the project form submits.
package imagehost

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/nextdash/dashboard-backend/config"
)

// PutObjectAPI is the slice of *s3.Client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds a client for the configured bucket. Static credentials
// are used when both keys are set, otherwise the default AWS chain.
func NewS3Client(ctx context.Context, cfg config.ImageConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Host uploads images and maps object keys to public URLs.
type Host struct {
	client    PutObjectAPI
	bucket    string
	publicURL string
}

func NewHost(client PutObjectAPI, bucket, publicURL string) *Host {
	return &Host{client: client, bucket: bucket, publicURL: publicURL}
}

// Upload writes body under a fresh key and returns its public URL.
func (h *Host) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := objectKey(filename)

	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return h.URL(key), nil
}

// URL renders the public URL of key.
func (h *Host) URL(key string) string {
	if strings.Contains(h.publicURL, "%s") {
		return fmt.Sprintf(h.publicURL, key)
	}
	return strings.TrimRight(h.publicURL, "/") + "/" + key
}

// objectKey keeps only the extension of the client's file name.
func objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 8 || strings.ContainsAny(ext, " %?#") {
		ext = ""
	}
	return "projects/" + uuid.NewString() + ext
}
