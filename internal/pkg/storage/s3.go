package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/softionyx/site/internal/config"
)

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stores files in an S3-compatible bucket.
type S3 struct {
	client    objectAPI
	bucket    string
	endpoint  *url.URL
	publicURL string
	pathStyle bool
}

func NewS3(_ context.Context, opts config.S3Options) (*S3, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	region := strings.TrimSpace(opts.Region)
	if bucket == "" || region == "" {
		return nil, errors.New("incomplete s3 config: bucket and region are required")
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	custom := endpoint != ""
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", region)
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	parsed, err := url.Parse(strings.TrimSuffix(endpoint, "/"))
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid s3 endpoint: %s", endpoint)
	}

	// Custom endpoints (MinIO, R2) are addressed path-style.
	pathStyle := opts.PathStyle || custom

	s3opts := s3.Options{
		Region:       region,
		UsePathStyle: pathStyle,
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		s3opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""))
	}
	if custom {
		s3opts.BaseEndpoint = aws.String(parsed.String())
	}

	return &S3{
		client:    s3.New(s3opts),
		bucket:    bucket,
		endpoint:  parsed,
		publicURL: strings.TrimRight(strings.TrimSpace(opts.PublicURL), "/"),
		pathStyle: pathStyle,
	}, nil
}

func (s *S3) Save(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := objectKey(folder, name)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return s.objectURL(key), nil
}

// Delete removes the object; S3 reports success for missing keys.
func (s *S3) Delete(ctx context.Context, folder, name string) error {
	key := objectKey(folder, name)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *S3) objectURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	base := strings.TrimSuffix(s.endpoint.Path, "/")
	if s.pathStyle {
		return s.endpoint.Scheme + "://" + s.endpoint.Host + base + "/" + s.bucket + "/" + key
	}
	host := s.endpoint.Host
	if !strings.HasPrefix(strings.ToLower(host), strings.ToLower(s.bucket)+".") {
		host = s.bucket + "." + host
	}
	return s.endpoint.Scheme + "://" + host + base + "/" + key
}

func objectKey(folder, name string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{folder, name} {
		p = strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/ ")
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}
