package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
)

var ErrStorageDisabled = errors.New("snapshot storage is not configured")

type BoardRenderer interface {
	Render(board *domain.Board) ([]byte, error)
	ContentType() string
	Extension() string
}

type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type Snapshot struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ExportService struct {
	board    *BoardService
	renderer BoardRenderer
	store    ObjectStore
	urlTTL   time.Duration
	now      Clock
}

// NewExportService accepts a nil store; snapshots then fail with
// ErrStorageDisabled while plain downloads keep working.
func NewExportService(board *BoardService, renderer BoardRenderer, store ObjectStore, urlTTL time.Duration, now Clock) *ExportService {
	return &ExportService{
		board:    board,
		renderer: renderer,
		store:    store,
		urlTTL:   urlTTL,
		now:      now,
	}
}

func (s *ExportService) Export(ctx context.Context) (*ExportFile, error) {
	board, err := s.board.Build(ctx)
	if err != nil {
		return nil, err
	}

	data, err := s.renderer.Render(board)
	if err != nil {
		return nil, fmt.Errorf("render board: %w", err)
	}

	return &ExportFile{
		Name:        "tablero-" + board.Date + s.renderer.Extension(),
		ContentType: s.renderer.ContentType(),
		Data:        data,
	}, nil
}

// Snapshot uploads the current board and returns a time-limited download
// link.
func (s *ExportService) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	file, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	key := fmt.Sprintf("snapshots/%s/tablero-%s%s",
		now.Format("2006/01"), now.Format("20060102-150405"), s.renderer.Extension())

	if err := s.store.Put(ctx, key, file.Data, file.ContentType); err != nil {
		return nil, err
	}

	url, err := s.store.PresignedURL(ctx, key, s.urlTTL)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Key:       key,
		URL:       url,
		ExpiresAt: now.Add(s.urlTTL).UTC(),
	}, nil
}
