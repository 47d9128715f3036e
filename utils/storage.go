package utils

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AttachmentArchive stores copies of outgoing attachments in S3.
type AttachmentArchive struct {
	client    *minio.Client
	bucket    string
	cdnDomain string
}

// NewAttachmentArchive returns nil, nil when S3 is not configured.
func NewAttachmentArchive(endpoint, accessKey, secretKey, bucket, cdnDomain string) (*AttachmentArchive, error) {
	if endpoint == "" || bucket == "" {
		return nil, nil
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	if cdnDomain == "" {
		cdnDomain = endpoint + "/" + bucket
	}
	return &AttachmentArchive{client: client, bucket: bucket, cdnDomain: cdnDomain}, nil
}

// Put uploads data under whatsapp/<admin>/<yyyy-mm>/<uuid><ext> and returns
// its public URL.
func (a *AttachmentArchive) Put(ctx context.Context, adminID, fileName, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("whatsapp/%s/%s/%s%s", adminID, time.Now().Format("2006-01"), uuid.NewString(), path.Ext(fileName))

	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment to S3: %w", err)
	}
	return fmt.Sprintf("https://%s/%s", a.cdnDomain, key), nil
}
