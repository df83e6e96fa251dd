package utils

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type R2Config struct {
	Bucket       string
	AccessKey    string
	SecretKey    string
	Endpoint     string // https://<account-id>.r2.cloudflarestorage.com
	PublicDomain string
}

// R2Store talks to Cloudflare R2 through its S3-compatible API.
type R2Store struct {
	s3     *s3.Client
	bucket string
	domain string
}

func NewR2Store(ctx context.Context, c R2Config) (*R2Store, error) {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" || c.Endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.Endpoint)
		o.UsePathStyle = true // required for R2
	})
	return &R2Store{
		s3:     client,
		bucket: c.Bucket,
		domain: strings.TrimRight(c.PublicDomain, "/"),
	}, nil
}

func (s *R2Store) publicURL(name string) string {
	return fmt.Sprintf("%s/%s/%s", s.domain, s.bucket, name)
}

func (s *R2Store) Put(ctx context.Context, name, contentType string, body io.Reader, size int64) (string, error) {
	in := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(name),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("no-cache"),
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.s3.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return s.publicURL(name), nil
}

func (s *R2Store) Delete(ctx context.Context, name string) error {
	_, err := s.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (s *R2Store) List(ctx context.Context, prefix string) ([]StoredObject, error) {
	out := make([]StoredObject, 0)
	pages := s3.NewListObjectsV2Paginator(s.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			name := aws.ToString(obj.Key)
			out = append(out, StoredObject{
				Name:    name,
				URL:     s.publicURL(name),
				Size:    aws.ToInt64(obj.Size),
				Created: aws.ToTime(obj.LastModified),
			})
		}
	}
	return out, nil
}
