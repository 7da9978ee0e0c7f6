// Package watcher turns JSON note requests dropped into an inbox directory
// into Markdown notes in an outbox directory.
package watcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driving"
)

const (
	processedDir = "processed"
	failedDir    = "failed"
)

// Config holds watcher configuration
type Config struct {
	Inbox  string
	Outbox string

	// Concurrency bounds in-flight Generate calls. Defaults to 2.
	Concurrency int

	// ProviderID and ModelName fill requests that leave them empty
	ProviderID string
	ModelName  string

	// Settle is the pause before reading a new file so writers can finish. Defaults to 500ms.
	Settle time.Duration
	Logger *slog.Logger
}

// Watcher processes *.json note requests from an inbox
type Watcher struct {
	cfg       Config
	notes     driving.NoteService
	logger    *slog.Logger
	fsw       *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New creates the inbox and outbox directories and starts watching the inbox
func New(cfg Config, notes driving.NoteService) (*Watcher, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.Settle <= 0 {
		cfg.Settle = 500 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for _, dir := range []string{cfg.Inbox, cfg.Outbox, filepath.Join(cfg.Inbox, processedDir), filepath.Join(cfg.Inbox, failedDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(cfg.Inbox); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &Watcher{
		cfg:       cfg,
		notes:     notes,
		logger:    logger.With("component", "watcher"),
		fsw:       fsw,
		semaphore: make(chan struct{}, cfg.Concurrency),
		inFlight:  make(map[string]struct{}),
	}, nil
}

// Run processes requests already in the inbox, then new ones until ctx is cancelled.
// It waits for in-flight requests before returning.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching inbox", "inbox", w.cfg.Inbox, "outbox", w.cfg.Outbox, "concurrency", w.cfg.Concurrency)

	existing, err := filepath.Glob(filepath.Join(w.cfg.Inbox, "*.json"))
	if err != nil {
		return fmt.Errorf("scan inbox: %w", err)
	}
	for _, path := range existing {
		if !w.dispatch(ctx, path, 0) {
			break
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("waiting for in-flight notes")
			w.wg.Wait()
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				w.wg.Wait()
				return errors.New("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isRequestFile(event.Name) {
				continue
			}
			w.dispatch(ctx, event.Name, w.cfg.Settle)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.wg.Wait()
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Close stops watching the inbox
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// dispatch runs path on a semaphore slot. Returns false when ctx ended first.
func (w *Watcher) dispatch(ctx context.Context, path string, settle time.Duration) bool {
	w.mu.Lock()
	if _, busy := w.inFlight[path]; busy {
		w.mu.Unlock()
		return true
	}
	w.inFlight[path] = struct{}{}
	w.mu.Unlock()

	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		w.release(path)
		return false
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()
		defer w.release(path)

		if settle > 0 {
			select {
			case <-time.After(settle):
			case <-ctx.Done():
				return
			}
		}
		if _, err := os.Stat(path); err != nil {
			// already moved by an earlier event
			return
		}
		if err := w.ProcessFile(ctx, path); err != nil {
			w.logger.Error("note failed", "file", path, "error", err)
		}
	}()
	return true
}

func (w *Watcher) release(path string) {
	w.mu.Lock()
	delete(w.inFlight, path)
	w.mu.Unlock()
}

// ProcessFile generates the note for one request file and writes <name>.md to the outbox.
// The request is then moved to processed/ or, on failure, failed/.
// A request interrupted by cancellation stays in the inbox for the next run.
func (w *Watcher) ProcessFile(ctx context.Context, path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	outPath, err := w.generate(ctx, path, name)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			w.logger.Info("request interrupted, left in inbox", "file", path, "error", err)
			return err
		}
		if moveErr := moveInto(path, filepath.Join(w.cfg.Inbox, failedDir)); moveErr != nil {
			w.logger.Warn("could not move failed request", "file", path, "error", moveErr)
		}
		return err
	}

	if err := moveInto(path, filepath.Join(w.cfg.Inbox, processedDir)); err != nil {
		return fmt.Errorf("archive request: %w", err)
	}
	w.logger.Info("note written", "request", path, "note", outPath)
	return nil
}

func (w *Watcher) generate(ctx context.Context, path, name string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read request: %w", err)
	}

	var req driving.GenerateNoteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", domain.ErrInvalidInput, filepath.Base(path), err)
	}
	if req.ProviderID == "" {
		req.ProviderID = w.cfg.ProviderID
	}
	if req.ModelName == "" {
		req.ModelName = w.cfg.ModelName
	}
	if req.Note.Title == "" {
		req.Note.Title = name
	}

	doc, err := w.notes.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(w.cfg.Outbox, name+".md")
	if err := writeFileAtomic(outPath, []byte(RenderNote(doc))); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	return outPath, nil
}

// RenderNote joins the table of contents and the body into one Markdown file
func RenderNote(doc *domain.NoteDocument) string {
	body := strings.TrimRight(doc.Body, "\n") + "\n"
	if doc.TOC == "" {
		return body
	}
	return doc.TOC + "\n\n" + body
}

func isRequestFile(path string) bool {
	base := filepath.Base(path)
	return strings.EqualFold(filepath.Ext(base), ".json") && !strings.HasPrefix(base, ".")
}

func moveInto(path, dir string) error {
	return os.Rename(path, filepath.Join(dir, filepath.Base(path)))
}

// writeFileAtomic writes through a temp file in the same directory
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".note-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
