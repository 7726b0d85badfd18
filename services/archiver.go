package services

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Archiver stores the raw CSV of each import in S3 so the audit trail keeps
// the original file alongside the ImportRecord. A nil Archiver (no bucket
// configured) disables archiving; imports proceed without it.
type Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewArchiver(client *s3.Client, bucket, prefix string) *Archiver {
	if prefix == "" {
		prefix = "imports/"
	}
	return &Archiver{client: client, bucket: bucket, prefix: prefix}
}

// Enabled reports whether archiving is configured. Safe on a nil receiver.
func (a *Archiver) Enabled() bool {
	return a != nil && a.client != nil && a.bucket != ""
}

// Archive uploads the raw file under <prefix><import id>.csv.
func (a *Archiver) Archive(ctx context.Context, importID string, data []byte) error {
	key := path.Join(a.prefix, importID+".csv")

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	zap.L().Debug("archived import file", zap.String("bucket", a.bucket), zap.String("key", key))
	return nil
}
