package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	headTimeout   = 30 * time.Second
	uploadTimeout = 10 * time.Minute
)

// Config carries everything needed to reach the document bucket.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Endpoint        string // optional, for S3-compatible stores
	Bucket          string
}

// ObjectStore is the object-storage surface the services depend on. The
// versioning engine writes blobs only through this interface, always after
// the relational transaction has committed.
type ObjectStore interface {
	UploadBytes(ctx context.Context, key string, body []byte, contentType string) error
	CopyObject(ctx context.Context, sourceKey, destinationKey string) error
	PresignDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// Client wraps the AWS SDK client with the bucket it operates on.
type Client struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewClient builds an S3 client and verifies the bucket is reachable before
// returning, so a misconfigured store fails at startup rather than on the
// first save.
func NewClient(conf Config) (*Client, error) {
	if conf.AccessKeyID == "" || conf.SecretAccessKey == "" || conf.Bucket == "" {
		return nil, fmt.Errorf("s3: accessKeyID, secretAccessKey, and bucket are required")
	}

	creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
		conf.AccessKeyID,
		conf.SecretAccessKey,
		"",
	))

	opts := s3.Options{
		Region:           conf.Region,
		Credentials:      creds,
		RetryMode:        aws.RetryModeAdaptive,
		RetryMaxAttempts: 3,
	}
	if conf.Endpoint != "" {
		opts.BaseEndpoint = aws.String(conf.Endpoint)
	}

	client := s3.New(opts)

	ctx, cancel := context.WithTimeout(context.Background(), headTimeout)
	defer cancel()

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(conf.Bucket)}); err != nil {
		return nil, fmt.Errorf("s3: unable to access bucket %s: %w", conf.Bucket, err)
	}

	return &Client{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  conf.Bucket,
	}, nil
}

// UploadBytes writes body to key, overwriting any existing object.
func (c *Client) UploadBytes(ctx context.Context, key string, body []byte, contentType string) error {
	if key == "" {
		return fmt.Errorf("s3: key is required")
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3: failed to upload %s: %w", key, err)
	}
	return nil
}

// CopyObject duplicates sourceKey to destinationKey within the bucket. Used
// when cloning a scope or attaching a template version to a property.
func (c *Client) CopyObject(ctx context.Context, sourceKey, destinationKey string) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := c.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		CopySource: aws.String(c.bucket + "/" + sourceKey),
		Key:        aws.String(destinationKey),
	})
	if err != nil {
		return fmt.Errorf("s3: failed to copy %s to %s: %w", sourceKey, destinationKey, err)
	}
	return nil
}

// PresignDownloadURL returns a time-limited GET URL for key.
func (c *Client) PresignDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3: failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// ObjectExists reports whether key resolves to an object. The audit sweep
// uses it to find version rows whose blob never landed.
func (c *Client) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
