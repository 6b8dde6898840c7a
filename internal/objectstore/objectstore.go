package objectstore

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"pocketprc/internal/config"
	"pocketprc/internal/util/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultTimeout = 30 * time.Second

type ObjectStore struct {
	client *minio.Client
	bucket string
}

type Object struct {
	Reader      io.ReadCloser
	Size        int64
	ContentType string
}

var (
	store *ObjectStore
	once  sync.Once
)

// GetObjectStore connects to the S3 compatible storage and makes sure the
// attachments bucket exists.
func GetObjectStore() *ObjectStore {
	once.Do(func() {
		env := config.GetEnv()
		log := logger.GetLogger()

		client, err := minio.New(env.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(env.MinioAccessKey, env.MinioSecretKey, ""),
			Secure: env.MinioUseSsl,
		})
		if err != nil {
			log.Error("Failed to initialize object storage client", "error", err)
			panic(err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()

		exists, err := client.BucketExists(ctx, env.MinioBucket)
		if err != nil {
			log.Error("Failed to check attachments bucket", "bucket", env.MinioBucket, "error", err)
			panic(err)
		}

		if !exists {
			if err := client.MakeBucket(ctx, env.MinioBucket, minio.MakeBucketOptions{}); err != nil {
				log.Error("Failed to create attachments bucket", "bucket", env.MinioBucket, "error", err)
				panic(err)
			}

			log.Info("Attachments bucket created", "bucket", env.MinioBucket)
		}

		store = &ObjectStore{client: client, bucket: env.MinioBucket}
	})

	return store
}

func (s *ObjectStore) Put(
	ctx context.Context,
	path string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", path, err)
	}

	return nil
}

func (s *ObjectStore) Get(ctx context.Context, path string) (*Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s: %w", path, err)
	}

	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("failed to stat object %s: %w", path, err)
	}

	return &Object{
		Reader:      obj,
		Size:        info.Size,
		ContentType: info.ContentType,
	}, nil
}

func (s *ObjectStore) Remove(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", path, err)
	}

	return nil
}

func (s *ObjectStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}

	return false, err
}

func (s *ObjectStore) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}

	return nil
}
