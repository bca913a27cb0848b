package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 stores images in a bucket served from PublicBaseURL.
type S3 struct {
	Client        *s3.Client
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

type S3Config struct {
	Region        string
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3{
		Client:        s3.NewFromConfig(awsCfg),
		Bucket:        cfg.Bucket,
		Prefix:        strings.Trim(cfg.Prefix, "/"),
		PublicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3) key(filename string) string {
	key := objectName(filename)
	if s.Prefix != "" {
		key = s.Prefix + "/" + key
	}
	return key
}

func (s *S3) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	key := s.key(in.Filename)
	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.Bucket),
		Key:          aws.String(key),
		Body:         r,
		ContentType:  aws.String(in.ContentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	}
	if in.Size > 0 {
		input.ContentLength = aws.Int64(in.Size)
	}
	if _, err := s.Client.PutObject(ctx, input); err != nil {
		return PutResult{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return PutResult{Key: key, URL: s.PublicBaseURL + "/" + key}, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3) String() string { return fmt.Sprintf("s3(%s/%s)", s.Bucket, s.Prefix) }
