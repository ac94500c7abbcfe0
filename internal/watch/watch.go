// Package watch implements the drop-directory trigger: plain text files
// dropped into a watched directory are fed through the capture pipeline
// and archived afterwards.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zyaga/clipnote/internal/pipeline"
)

// settleDelay gives editors and copy tools time to finish writing a
// dropped file before we read it.
const settleDelay = 200 * time.Millisecond

// ResultCallback is called after every pipeline run triggered by a
// dropped file.
type ResultCallback func(res *pipeline.Result)

// Run starts an fsnotify watcher on dropDir and processes dropped .txt
// files until ctx is cancelled. Files already present at startup are
// swept first. Processed files are moved to archiveDir; when archiveDir
// is empty, dropDir/processed is used.
func Run(ctx context.Context, pipe *pipeline.Pipeline, dropDir, archiveDir string, logger *slog.Logger, cb ResultCallback) error {
	if err := os.MkdirAll(dropDir, 0o755); err != nil {
		return err
	}
	if archiveDir == "" {
		archiveDir = filepath.Join(dropDir, "processed")
	}
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dropDir); err != nil {
		return err
	}

	logger.Info("watch: started", slog.String("drop_dir", dropDir), slog.String("archive_dir", archiveDir))

	// Sweep files that were dropped before the watcher came up.
	sweep(ctx, pipe, dropDir, archiveDir, logger, cb)

	// pending debounces per-file events so a file being written in
	// several chunks is processed once, after it settles.
	pending := make(map[string]*time.Timer)
	readyCh := make(chan string, 64)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch: stopped")
			return nil

		case path := <-readyCh:
			delete(pending, path)
			process(ctx, pipe, path, archiveDir, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			path := ev.Name
			if !isDroppedFile(path) {
				continue
			}
			if t, exists := pending[path]; exists {
				t.Reset(settleDelay)
				continue
			}
			p := path
			pending[p] = time.AfterFunc(settleDelay, func() {
				select {
				case readyCh <- p:
				case <-ctx.Done():
				}
			})

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

// isDroppedFile reports whether path looks like a droppable capture.
// Hidden files and non-text extensions are ignored.
func isDroppedFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	return ext == ".txt" || ext == ".md"
}

// sweep processes files already sitting in the drop directory.
func sweep(ctx context.Context, pipe *pipeline.Pipeline, dropDir, archiveDir string, logger *slog.Logger, cb ResultCallback) {
	_ = filepath.WalkDir(dropDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dropDir {
				return fs.SkipDir
			}
			return nil
		}
		if !isDroppedFile(path) {
			return nil
		}
		process(ctx, pipe, path, archiveDir, logger, cb)
		return nil
	})
}

// process runs one dropped file through the pipeline and archives it.
// Failures leave the file in place so a later sweep can retry.
func process(ctx context.Context, pipe *pipeline.Pipeline, path, archiveDir string, logger *slog.Logger, cb ResultCallback) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("watch: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	res, err := pipe.Run(ctx, string(data))
	if err != nil {
		logger.Warn("watch: capture failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	logger.Info("watch: processed",
		slog.String("path", path),
		slog.String("status", string(res.Status)),
		slog.String("filename", res.Filename))

	if cb != nil {
		cb(res)
	}

	dst := filepath.Join(archiveDir, filepath.Base(path))
	if _, statErr := os.Stat(dst); statErr == nil {
		dst = filepath.Join(archiveDir, time.Now().Format("20060102-150405_")+filepath.Base(path))
	}
	if mvErr := os.Rename(path, dst); mvErr != nil {
		logger.Warn("watch: archive failed", slog.String("path", path), slog.String("error", mvErr.Error()))
	}
}
