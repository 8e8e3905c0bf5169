package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

type minioSnapshotRepository struct {
	client     *minio.Client
	bucketName string
	keyPrefix  string
}

// NewMinIOSnapshotRepository 创建一个把快照存为对象的 SnapshotRepository。
// 调用方需保证存储桶已经存在（见 storage.InitMinIO）。
func NewMinIOSnapshotRepository(client *minio.Client, bucketName, keyPrefix string) SnapshotRepository {
	return &minioSnapshotRepository{client: client, bucketName: bucketName, keyPrefix: keyPrefix}
}

func (r *minioSnapshotRepository) objectName(name string) string {
	return r.keyPrefix + name + ".json"
}

func (r *minioSnapshotRepository) Load(ctx context.Context, name string) ([]byte, error) {
	obj, err := r.client.GetObject(ctx, r.bucketName, r.objectName(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot object %s: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot object %s: %w", name, err)
	}
	return data, nil
}

func (r *minioSnapshotRepository) Save(ctx context.Context, name string, data []byte) error {
	_, err := r.client.PutObject(ctx, r.bucketName, r.objectName(name), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to put snapshot object %s: %w", name, err)
	}
	return nil
}

func (r *minioSnapshotRepository) Delete(ctx context.Context, name string) error {
	err := r.client.RemoveObject(ctx, r.bucketName, r.objectName(name), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove snapshot object %s: %w", name, err)
	}
	return nil
}
