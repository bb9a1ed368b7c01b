package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"frontend-go/config"
	"frontend-go/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrExportDisabled = errors.New("export is not configured")

// Uploader is satisfied by *manager.Uploader.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Exporter writes appointment snapshots to an S3 bucket.
type Exporter struct {
	uploader Uploader
	bucket   string
	now      func() time.Time
}

// NewExporter returns nil when no bucket is configured; a nil Exporter
// refuses every export with ErrExportDisabled.
func NewExporter(uploader Uploader, bucket string) *Exporter {
	if uploader == nil || bucket == "" {
		return nil
	}
	return &Exporter{uploader: uploader, bucket: bucket, now: time.Now}
}

// NewS3Exporter builds an Exporter from the loaded AWS configuration.
func NewS3Exporter() *Exporter {
	if !config.ExportEnabled() {
		return nil
	}
	return NewExporter(manager.NewUploader(s3.NewFromConfig(config.AWSConfig)), config.AWSBucketName)
}

// ExportAppointments uploads the list as JSON and returns the object key.
func (e *Exporter) ExportAppointments(ctx context.Context, list []models.Appointment) (string, error) {
	if e == nil {
		return "", ErrExportDisabled
	}
	body, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/appointments-%d.json", e.now().Unix())
	_, err = e.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	config.Log.WithField("key", key).Info("appointments exported")
	return key, nil
}
