package snapshot

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store persists snapshots in an S3 bucket.
//
// Example usage:
//
//	cfg, _ := awsconfig.LoadDefaultConfig(context.Background())
//	client := s3.NewFromConfig(cfg)
//	store := snapshot.NewS3Store(client, "my-bucket", "snapshots/")
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates an S3-backed snapshot store.
//
// Parameters:
//   - client: AWS S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: key prefix for snapshots (e.g. "snapshots/")
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Save implements Store.
func (s *S3Store) Save(ctx context.Context, snap *Snapshot) (string, error) {
	id := newID()
	takenAt := snap.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now().UTC()
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + id),
		Body:        strings.NewReader(snap.HTML),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata: map[string]string{
			"weft-element":  snap.Element,
			"weft-taken-at": takenAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 snapshot upload failed: %w", err)
	}

	snap.ID = id
	snap.TakenAt = takenAt
	return id, nil
}

// Get implements Store.
func (s *S3Store) Get(ctx context.Context, id string) (*Snapshot, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + id),
	})
	if err != nil {
		return nil, ErrNotFound
	}
	defer result.Body.Close()

	body, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 snapshot read failed: %w", err)
	}

	snap := &Snapshot{
		ID:      id,
		Element: result.Metadata["weft-element"],
		HTML:    string(body),
	}
	if raw, ok := result.Metadata["weft-taken-at"]; ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			snap.TakenAt = t
		}
	}
	return snap, nil
}

// Delete implements Store.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + id),
	})
	return err
}
