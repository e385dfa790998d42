package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/2beens/workoutdash/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveStore keeps all objects as files of a single Google Drive folder.
// Keys map to file names verbatim, slashes included.
type DriveStore struct {
	service  *drive.Service
	folderID string
}

func NewDriveStore(ctx context.Context, credentialsFile, folderName string) (*DriveStore, error) {
	if folderName == "" {
		return nil, fmt.Errorf("drive folder name cannot be empty")
	}

	credentialsJson, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}

	// https://github.com/googleapis/google-api-go-client/blob/master/drive/v3/drive-gen.go
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJson))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	s := &DriveStore{
		service: driveService,
	}

	folderQuery := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, escapeQuery(folderName))
	folders, err := driveService.
		Files.List().
		Q(folderQuery).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve folders: %w", err)
	}

	switch {
	case len(folders.Files) == 0:
		log.Printf("drive store: folder [%s] not found, creating ...", folderName)
		created, err := driveService.
			Files.Create(&drive.File{Name: folderName, MimeType: folderMimeType}).
			Fields("id").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("create drive folder: %w", err)
		}
		s.folderID = created.Id
	case len(folders.Files) > 1:
		log.Warnf("drive store: found %d folders named [%s], will take the first one: %s", len(folders.Files), folderName, folders.Files[0].Id)
		s.folderID = folders.Files[0].Id
	default:
		s.folderID = folders.Files[0].Id
	}

	log.Debugf("drive store: using folder %s", s.folderID)
	return s, nil
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func (s *DriveStore) fileID(ctx context.Context, key string) (string, error) {
	q := fmt.Sprintf("'%s' in parents and name = '%s' and trashed = false", s.folderID, escapeQuery(key))
	files, err := s.service.
		Files.List().
		Q(q).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list drive files: %w", err)
	}
	if len(files.Files) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return files.Files[0].Id, nil
}

func (s *DriveStore) Get(ctx context.Context, key string) (_ io.ReadCloser, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "driveStore.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	id, err := s.fileID(ctx, key)
	if err != nil {
		return nil, err
	}

	resp, err := s.service.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	return resp.Body, nil
}

// Put uploads the content in a single media request; Drive exposes the new
// revision only once the upload completes.
func (s *DriveStore) Put(ctx context.Context, key string, r io.Reader) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "driveStore.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	id, err := s.fileID(ctx, key)
	switch {
	case err == nil:
		if _, err = s.service.Files.Update(id, &drive.File{}).Media(r).Context(ctx).Do(); err != nil {
			return fmt.Errorf("update %s: %w", key, err)
		}
	case isNotFound(err):
		meta := &drive.File{
			Name:    key,
			Parents: []string{s.folderID},
		}
		if _, err = s.service.Files.Create(meta).Fields("id").Media(r).Context(ctx).Do(); err != nil {
			return fmt.Errorf("create %s: %w", key, err)
		}
	default:
		return err
	}

	log.Debugf("drive store: [%s] uploaded", key)
	return nil
}

func (s *DriveStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.fileID(ctx, key)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}
