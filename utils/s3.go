package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// ErrObjectTooLarge is returned by Download when an object exceeds the size limit
var ErrObjectTooLarge = errors.New("object too large")

// S3Store reads text objects from S3 compatible storage
type S3Store struct {
	client      *s3.Client
	maxAttempts int
	retryDelay  time.Duration
}

func InitS3(ctx context.Context, logger *zap.Logger, cfg S3Config) (*S3Store, error) {
	sugar := logger.Sugar()
	sugar.Info("Initializing cloud storage service")

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	s3Options := []func(*s3.Options){
		func(o *s3.Options) {
			o.UsePathStyle = true
		},
	}

	if cfg.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
		sugar.Info("Using custom storage endpoint configuration")
	} else {
		sugar.Info("Using default cloud storage configuration")
	}

	store := &S3Store{
		client:      s3.NewFromConfig(awsCfg, s3Options...),
		maxAttempts: cfg.RetryMaxAttempts,
		retryDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}

	buckets, err := store.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	sugar.Infow("Cloud storage service initialized successfully", "bucket_count", len(buckets.Buckets))
	return store, nil
}

// Download fetches an object of at most limit bytes, retrying failed attempts after
// the configured delay. A limit of zero or less disables the size check.
// Missing objects, denied access and oversized objects fail on the first attempt.
func (s *S3Store) Download(ctx context.Context, bucket, key string, limit int64) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		data, err := s.getObject(ctx, bucket, key, limit)
		if err == nil {
			return data, nil
		}
		if !retryable(err) {
			return nil, fmt.Errorf("failed to download object: %w", err)
		}
		lastErr = err

		if attempt < s.maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}
	}

	return nil, fmt.Errorf("failed to download object after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *S3Store) getObject(ctx context.Context, bucket, key string, limit int64) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()

	if limit <= 0 {
		return io.ReadAll(result.Body)
	}
	if aws.ToInt64(result.ContentLength) > limit {
		return nil, ErrObjectTooLarge
	}

	// Content-Length may be absent, so the read is bounded as well
	data, err := io.ReadAll(io.LimitReader(result.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrObjectTooLarge
	}
	return data, nil
}

// retryable reports whether another attempt could succeed
func retryable(err error) bool {
	if errors.Is(err, ErrObjectTooLarge) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return false
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		status := respErr.HTTPStatusCode()
		if status >= 400 && status < 500 {
			return status == http.StatusRequestTimeout || status == http.StatusTooManyRequests
		}
	}
	return true
}

// ParseS3URI parses "s3://bucket/key" into bucket + key.
func ParseS3URI(u string) (bucket, key string, _ error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return "", "", fmt.Errorf("parse s3 uri: %w", err)
	}
	if parsed.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 uri: %s", u)
	}
	key = strings.TrimPrefix(parsed.Path, "/")
	if parsed.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri needs a bucket and a key: %s", u)
	}
	return parsed.Host, key, nil
}
