package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/smgmdev/pressdeck/wordpress"
)

// ImageArchiver keeps a copy of every featured image sent to WordPress
type ImageArchiver interface {
	Archive(ctx context.Context, articleID string, img wordpress.Image) (string, error)
}

// S3PutObjectAPI is the part of the S3 client the archiver needs
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client S3PutObjectAPI
	bucket string
	prefix string
	clock  func() time.Time
}

func NewS3Archiver(client S3PutObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, prefix: prefix, clock: time.Now}
}

// NewS3ArchiverFromEnv builds the S3 client from the default AWS credential chain
func NewS3ArchiverFromEnv(ctx context.Context, bucket, prefix string) (*S3Archiver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return NewS3Archiver(s3.NewFromConfig(awsCfg), bucket, prefix), nil
}

// Archive uploads img under <prefix>/<articleID>/<unix>-<filename> and returns the object key
func (a *S3Archiver) Archive(ctx context.Context, articleID string, img wordpress.Image) (string, error) {
	key := path.Join(a.prefix, articleID, fmt.Sprintf("%d-%s", a.clock().Unix(), img.Filename))
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentType:   aws.String(img.ContentType),
		ContentLength: aws.Int64(int64(len(img.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("archiving image to s3://%s/%s: %w", a.bucket, key, err)
	}
	return key, nil
}
