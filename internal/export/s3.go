package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Headers set on every uploaded settings object. Tag loaders fetch the
// object directly, so caches must revalidate after each save.
const (
	settingsContentType  = "application/json"
	settingsCacheControl = "no-cache"
)

// S3Config locates the settings object in an S3-compatible bucket.
type S3Config struct {
	Bucket string
	Key    string
	Region string
	// Endpoint overrides the AWS endpoint and switches to path-style
	// addressing, e.g. for MinIO.
	Endpoint string
}

// URL returns the s3:// URL of the object.
func (c S3Config) URL() string {
	return fmt.Sprintf("s3://%s/%s", c.Bucket, c.Key)
}

// S3Destination publishes settings as a single object in a bucket.
type S3Destination struct {
	client  *s3.Client
	cfg     S3Config
	version string
}

// NewS3Destination loads AWS credentials from the environment and returns a
// destination for the object described by cfg.
func NewS3Destination(ctx context.Context, cfg S3Config) (*S3Destination, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 destination needs a bucket and key, got %q", cfg.URL())
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
			// Not every S3-compatible store accepts checksum trailers.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}
	})
	return &S3Destination{client: client, cfg: cfg}, nil
}

// Name returns the s3:// URL of the settings object.
func (d *S3Destination) Name() string {
	return d.cfg.URL()
}

// Version returns the ETag of the last successful upload, or "" before one.
func (d *S3Destination) Version() string {
	return d.version
}

// Write replaces the settings object with data.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	out, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.cfg.Bucket),
		Key:           aws.String(d.cfg.Key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(settingsContentType),
		CacheControl:  aws.String(settingsCacheControl),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", d.cfg.URL(), err)
	}
	d.version = strings.Trim(aws.ToString(out.ETag), `"`)
	return nil
}
