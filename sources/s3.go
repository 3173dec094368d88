package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kolloid-cable/drift/content"
)

// ObjectGetter is the subset of the S3 client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a JSON array of items from an S3 object.
type S3Source struct {
	bucket string
	key    string
	client ObjectGetter
}

// NewS3Source creates a source for s3://bucket/key using the default AWS credential chain.
func NewS3Source(ctx context.Context, uri, region string) (*S3Source, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Source{bucket: bucket, key: key, client: s3.NewFromConfig(cfg)}, nil
}

// NewS3SourceWithClient creates a source backed by an existing client.
func NewS3SourceWithClient(uri string, client ObjectGetter) (*S3Source, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}
	return &S3Source{bucket: bucket, key: key, client: client}, nil
}

func (s *S3Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

// Fetch downloads and decodes the object.
func (s *S3Source) Fetch(ctx context.Context) ([]content.Item, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", s.Name(), err)
	}
	defer out.Body.Close()
	return decodeItems(out.Body)
}

func parseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("parsing %q: %w", uri, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("s3 uri without object key: %q", uri)
	}
	return u.Host, key, nil
}
