package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/stylemate/catalog-scraper/internal/types"
)

// JSONLStore appends records to a JSON Lines file. It is a dry-run sink for
// local crawls without a MongoDB instance; it does not merge prior documents,
// every upsert simply emits the record it was given.
type JSONLStore struct {
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewJSONLStore creates the output file, making parent directories as needed.
func NewJSONLStore(path string, logger *slog.Logger) (*JSONLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &JSONLStore{
		file:   file,
		writer: bufio.NewWriter(file),
		logger: logger.With("component", "jsonl_catalog"),
	}, nil
}

func (s *JSONLStore) Name() string { return "jsonl" }

func (s *JSONLStore) Upsert(_ context.Context, rec *types.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := *rec
	out.ScrapedAt = time.Now().UTC()

	line, err := json.Marshal(&out)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	if _, err := s.writer.Write(append(line, '\n')); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	s.count++
	return nil
}

func (s *JSONLStore) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("jsonl catalog closing", "total_writes", s.count, "path", s.file.Name())
	if err := s.writer.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
