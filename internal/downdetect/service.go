package downdetect

import (
	"context"
	"fmt"
	"time"

	"pocketprc/internal/storage"
	cache_utils "pocketprc/internal/util/cache"
)

const checkTimeout = 5 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// UnavailableError names the first dependency that failed its check.
type UnavailableError struct {
	Dependency string
	Err        error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s check failed: %v", e.Dependency, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

type DowndetectService struct {
	objectStorage Pinger
}

func (s *DowndetectService) SetObjectStorage(objectStorage Pinger) {
	s.objectStorage = objectStorage
}

func (s *DowndetectService) IsAvailable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := storage.GetDb().WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return &UnavailableError{Dependency: "database", Err: err}
	}

	if err := s.testCacheConnection(); err != nil {
		return &UnavailableError{Dependency: "cache", Err: err}
	}

	if s.objectStorage != nil {
		if err := s.objectStorage.Ping(ctx); err != nil {
			return &UnavailableError{Dependency: "object storage", Err: err}
		}
	}

	return nil
}

func (s *DowndetectService) testCacheConnection() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache connection test panicked: %v", r)
		}
	}()

	return cache_utils.CheckCacheConnection()
}
