package memory

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sync"

	"tlcintake/internal/port"
)

type object struct {
	data        []byte
	contentType string
}

// Storage is an in-memory ObjectStorage for development and tests.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]object
}

// NewStorage creates an empty in-memory store.
func NewStorage() *Storage {
	return &Storage{objects: make(map[string]object)}
}

func objectKey(bucket, key string) string {
	return bucket + "/" + key
}

func (s *Storage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, fmt.Errorf("memory upload: %w", err)
	}

	s.mu.Lock()
	s.objects[objectKey(input.Bucket, input.Key)] = object{data: data, contentType: input.ContentType}
	s.mu.Unlock()

	return &port.UploadOutput{
		Location: "memory://" + objectKey(input.Bucket, input.Key),
		ETag:     fmt.Sprintf("%x", md5.Sum(data)),
	}, nil
}

func (s *Storage) Delete(_ context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectKey(bucket, key)]; !ok {
		return fmt.Errorf("memory delete: object %s not found", objectKey(bucket, key))
	}
	delete(s.objects, objectKey(bucket, key))
	return nil
}

func (s *Storage) GetPresignedURL(_ context.Context, bucket, key string, _ int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[objectKey(bucket, key)]; !ok {
		return "", fmt.Errorf("memory presign: object %s not found", objectKey(bucket, key))
	}
	return "memory://" + objectKey(bucket, key), nil
}

// Object returns a stored object's bytes and content type.
func (s *Storage) Object(bucket, key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[objectKey(bucket, key)]
	return obj.data, obj.contentType, ok
}

// Count reports the number of stored objects.
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
