package seed

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"

	"bakehouse/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader reads gzipped product fixtures from AWS S3.
type s3Loader struct {
	client *s3.Client
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Loader creates an S3-backed fixture loader.
func NewS3Loader(ctx context.Context, bucket, region, key string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-seed-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("key", key).
		Str("region", region).
		Msg("S3 seed loader initialised")

	return &s3Loader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

// Load fetches and decodes the gzipped fixture object.
func (l *s3Loader) Load(ctx context.Context) ([]model.Product, error) {
	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", l.key).
			Msg("failed to get fixture object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, l.key, err)
	}
	defer result.Body.Close()

	gzipReader, err := gzip.NewReader(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for S3 object %s: %w", l.key, err)
	}
	defer gzipReader.Close()

	data, err := io.ReadAll(gzipReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture object %s: %w", l.key, err)
	}

	products, err := decodeProducts(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fixture object %s: %w", l.key, err)
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", l.key).
		Int("count", len(products)).
		Msg("loaded product fixtures from S3")

	return products, nil
}
