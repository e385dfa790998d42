package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid object key")
)

const (
	BackendDisk  = "disk"
	BackendDrive = "gdrive"
)

// Store holds the pipeline input, outputs and artifacts by key.
type Store interface {
	// Get returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Put publishes the content under key, replacing any previous content.
	// Readers never observe a partially written object.
	Put(ctx context.Context, key string, r io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
}

type Params struct {
	Backend         string
	DiskRootPath    string
	CredentialsFile string
	DriveFolderName string
}

func New(ctx context.Context, params Params) (Store, error) {
	switch params.Backend {
	case BackendDisk, "":
		return NewDiskStore(params.DiskRootPath)
	case BackendDrive:
		return NewDriveStore(ctx, params.CredentialsFile, params.DriveFolderName)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", params.Backend)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
