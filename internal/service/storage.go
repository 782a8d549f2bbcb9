package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/opaldesk/accounts-backend/config"
)

// s3API is the slice of the S3 client the storage service uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// StorageService stores per-user assets in an S3 bucket.
type StorageService struct {
	client s3API
	bucket string
}

// Ensure StorageService implements ObjectStore
var _ ObjectStore = (*StorageService)(nil)

// NewStorageService creates a StorageService from the S3 configuration.
func NewStorageService(cfg *config.S3Config) *StorageService {
	return &StorageService{
		client: cfg.Client,
		bucket: cfg.BucketName,
	}
}

// ProfileImageKey builds the object key for a user's profile image:
// {userId}/profile_image/profile_{epochMillis}.{ext}.
func ProfileImageKey(userID, filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s/profile_image/profile_%d.%s", userID, time.Now().UnixMilli(), ext)
}

// Upload stores data under key and returns the object's public URL.
func (s *StorageService) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", upstreamError("failed to upload object", err)
	}

	objectURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	log.Printf("[StorageService] Uploaded object: %s", objectURL)
	return objectURL, nil
}

// Delete removes the object referenced by objectURL. URLs that do not
// point into this bucket are ignored.
func (s *StorageService) Delete(ctx context.Context, objectURL string) error {
	key, ok := s.keyFromURL(objectURL)
	if !ok {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return upstreamError("failed to delete object", err)
	}
	log.Printf("[StorageService] Deleted object: %s", key)
	return nil
}

// DeletePrefix removes every object under prefix, page by page. The
// enumeration and deletes are not atomic; callers treat this as a
// best-effort sweep.
func (s *StorageService) DeletePrefix(ctx context.Context, prefix string) error {
	var token *string
	for {
		page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return upstreamError("failed to list objects", err)
		}

		if len(page.Contents) > 0 {
			objects := make([]s3types.ObjectIdentifier, 0, len(page.Contents))
			for _, obj := range page.Contents {
				objects = append(objects, s3types.ObjectIdentifier{Key: obj.Key})
			}
			_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(s.bucket),
				Delete: &s3types.Delete{
					Objects: objects,
					Quiet:   aws.Bool(true),
				},
			})
			if err != nil {
				return upstreamError("failed to delete objects", err)
			}
			log.Printf("[StorageService] Deleted %d objects under prefix %s", len(objects), prefix)
		}

		if page.NextContinuationToken == nil {
			return nil
		}
		token = page.NextContinuationToken
	}
}

func (s *StorageService) keyFromURL(objectURL string) (string, bool) {
	marker := fmt.Sprintf("https://%s.s3.amazonaws.com/", s.bucket)
	if !strings.HasPrefix(objectURL, marker) {
		return "", false
	}
	key := strings.TrimPrefix(objectURL, marker)
	return key, key != ""
}
