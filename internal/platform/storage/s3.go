// Package storage backs up normalized diagrams to S3. Uploads are best
// effort: a failed backup is logged and counted, never fatal to the request.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"skyrchitect-server-go/internal/platform/config"
	"skyrchitect-server-go/internal/platform/errors"
	"skyrchitect-server-go/internal/platform/logging"
	"skyrchitect-server-go/internal/platform/observability"
)

// S3Client is the subset of S3 operations the uploader uses. The narrow
// interface keeps tests free of real SDK clients.
type S3Client interface {
	PutObject(
		ctx context.Context,
		params *s3.PutObjectInput,
		optFns ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)
	HeadBucket(
		ctx context.Context,
		params *s3.HeadBucketInput,
		optFns ...func(*s3.Options),
	) (*s3.HeadBucketOutput, error)
	CreateBucket(
		ctx context.Context,
		params *s3.CreateBucketInput,
		optFns ...func(*s3.Options),
	) (*s3.CreateBucketOutput, error)
	PutBucketVersioning(
		ctx context.Context,
		params *s3.PutBucketVersioningInput,
		optFns ...func(*s3.Options),
	) (*s3.PutBucketVersioningOutput, error)
	PutBucketLifecycleConfiguration(
		ctx context.Context,
		params *s3.PutBucketLifecycleConfigurationInput,
		optFns ...func(*s3.Options),
	) (*s3.PutBucketLifecycleConfigurationOutput, error)
}

// Uploader stores diagram backups under a timestamped key per upload.
type Uploader struct {
	client  S3Client
	cfg     config.StorageConfig
	logger  *logging.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewUploader builds an uploader backed by the real SDK client.
func NewUploader(ctx context.Context, cfg config.StorageConfig, logger *logging.Logger, metrics *observability.Metrics) (*Uploader, error) {
	const op = "storage.NewUploader"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "load AWS configuration", err)
	}

	u := NewUploaderWithClient(s3.NewFromConfig(awsCfg), cfg, logger, metrics)
	if err := u.EnsureBucket(ctx); err != nil {
		// same policy as uploads: diagrams are still analyzed, just not backed up
		logger.Component("storage").Warnf("could not prepare bucket %s: %v", cfg.Bucket, err)
	}
	return u, nil
}

// NewUploaderWithClient builds an uploader around an existing client.
// Tests inject fakes here.
func NewUploaderWithClient(client S3Client, cfg config.StorageConfig, logger *logging.Logger, metrics *observability.Metrics) *Uploader {
	return &Uploader{
		client:  client,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// EnsureBucket creates the backup bucket when it does not exist yet, with
// versioning enabled and a 90-day expiry on noncurrent versions.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	const op = "storage.EnsureBucket"
	log := u.logger.Component("storage")

	if _, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.cfg.Bucket),
	}); err == nil {
		log.Infof("bucket %s exists", u.cfg.Bucket)
		return nil
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(u.cfg.Bucket)}
	// us-east-1 rejects an explicit location constraint
	if u.cfg.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(u.cfg.Region),
		}
	}
	if _, err := u.client.CreateBucket(ctx, input); err != nil {
		return errors.Wrap(errors.KindStorage, op, "create bucket "+u.cfg.Bucket, err)
	}

	if _, err := u.client.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: aws.String(u.cfg.Bucket),
		VersioningConfiguration: &types.VersioningConfiguration{
			Status: types.BucketVersioningStatusEnabled,
		},
	}); err != nil {
		log.Warnf("could not enable versioning on %s: %v", u.cfg.Bucket, err)
	}

	if _, err := u.client.PutBucketLifecycleConfiguration(ctx, &s3.PutBucketLifecycleConfigurationInput{
		Bucket: aws.String(u.cfg.Bucket),
		LifecycleConfiguration: &types.BucketLifecycleConfiguration{
			Rules: []types.LifecycleRule{
				{
					ID:     aws.String("DeleteOldVersions"),
					Status: types.ExpirationStatusEnabled,
					NoncurrentVersionExpiration: &types.NoncurrentVersionExpiration{
						NoncurrentDays: aws.Int32(90),
					},
				},
			},
		},
	}); err != nil {
		log.Warnf("could not set lifecycle policy on %s: %v", u.cfg.Bucket, err)
	}

	log.Infof("bucket %s created", u.cfg.Bucket)
	return nil
}

// UploadDiagram writes the payload under "<prefix>/<timestamp>-<filename>"
// with server-side encryption and returns the s3:// reference. An empty
// string signals the backup was skipped or failed; callers carry on.
func (u *Uploader) UploadDiagram(ctx context.Context, content []byte, filename, contentType string, metadata map[string]string) string {
	if !u.cfg.Enabled || u.client == nil {
		return ""
	}

	timestamp := u.now().UTC().Format("20060102-150405")
	key := fmt.Sprintf("%s/%s-%s", u.cfg.KeyPrefix, timestamp, filename)

	merged := map[string]string{
		"original-filename": filename,
		"upload-timestamp":  timestamp,
	}
	for k, v := range metadata {
		merged[k] = v
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(u.cfg.Bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(content),
		ContentType:          aws.String(contentType),
		Metadata:             merged,
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		if u.metrics != nil {
			u.metrics.StorageFailures.Inc()
		}
		u.logger.Component("storage").Warnf(
			"diagram backup failed, continuing without it: bucket=%s key=%s err=%v",
			u.cfg.Bucket, key, err,
		)
		return ""
	}

	url := fmt.Sprintf("s3://%s/%s", u.cfg.Bucket, key)
	u.logger.Component("storage").Infof("diagram backed up: url=%s bytes=%d", url, len(content))
	return url
}
