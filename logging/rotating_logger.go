package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// logFilePrefix is the base name of every rotated log file.
const logFilePrefix = "posologie"

// defaultMaxFileSize caps a single log file at 100MB unless configured.
const defaultMaxFileSize = 100 * 1024 * 1024

// numberedLogRe matches size-rotated files such as posologie-2026-W35_02.log
// and captures the two-digit sequence number.
var numberedLogRe = regexp.MustCompile(`^` + logFilePrefix + `-(\d{4}-W\d{2})_(\d{2})\.log$`)

// RotatingLogger is an io.Writer that switches its underlying file on ISO
// week boundaries and on a size limit, and prunes files past retention.
type RotatingLogger struct {
	logDir      string
	currentFile *os.File
	currentWeek string
	retention   time.Duration
	maxFileSize int64
	currentSize atomic.Int64
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	cleanupDone chan struct{}
}

// NewRotatingLogger creates a rotating logger. A maxFileSize of zero or
// less falls back to the 100MB default.
func NewRotatingLogger(logDir string, retentionWeeks int, maxFileSize int64) *RotatingLogger {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RotatingLogger{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}
}

// getWeekKey returns the week key in YYYY-Www format (ISO week)
func getWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// selectLogFile picks the file the next write should land in. The plain
// weekly file is used until it fills up; after that, numbered files take
// over, reusing the newest one while it still has room. The second return
// value reports whether the chosen file is brand new.
func (rl *RotatingLogger) selectLogFile(week string, sizeRotation bool) (string, bool) {
	base := fmt.Sprintf("%s-%s.log", logFilePrefix, week)
	if !sizeRotation {
		info, err := os.Stat(filepath.Join(rl.logDir, base))
		if err != nil || info.Size() < rl.maxFileSize {
			return base, false
		}
	}

	var highest int
	var newest string
	var newestSize int64
	entries, _ := os.ReadDir(rl.logDir)
	for _, entry := range entries {
		m := numberedLogRe.FindStringSubmatch(entry.Name())
		if m == nil || m[1] != week {
			continue
		}
		num, _ := strconv.Atoi(m[2])
		if num <= highest {
			continue
		}
		highest = num
		newest = entry.Name()
		newestSize = 0
		if info, err := entry.Info(); err == nil {
			newestSize = info.Size()
		}
	}

	if newest != "" && newestSize < rl.maxFileSize {
		return newest, false
	}
	return fmt.Sprintf("%s-%s_%02d.log", logFilePrefix, week, highest+1), true
}

// doRotate switches to the file for targetWeek. Caller must hold the write
// lock.
func (rl *RotatingLogger) doRotate(targetWeek string) error {
	if rl.currentFile != nil {
		if err := rl.currentFile.Close(); err != nil {
			slog.Warn("Failed to close log file during rotation", "error", err)
		}
	}

	sizeRotation := rl.currentSize.Load() >= rl.maxFileSize
	fileName, fresh := rl.selectLogFile(targetWeek, sizeRotation)

	logPath := filepath.Join(rl.logDir, fileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	rl.currentFile = file
	rl.currentWeek = targetWeek

	if fresh {
		rl.currentSize.Store(0)
	} else if info, err := os.Stat(logPath); err == nil {
		rl.currentSize.Store(info.Size())
	}

	return nil
}

// Write appends to the current log file, rotating first when the week has
// changed or the write would push the file past its size limit.
func (rl *RotatingLogger) Write(p []byte) (n int, err error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := getWeekKey(time.Now())
	rotate := rl.currentWeek != week
	if !rotate {
		size := rl.currentSize.Load()
		if size >= rl.maxFileSize || size+int64(len(p)) > rl.maxFileSize {
			// Pin the size at the limit so doRotate treats this as a size
			// rotation and moves on to a numbered file.
			rl.currentSize.Store(rl.maxFileSize)
			rotate = true
		}
	}

	if rotate {
		if err = rl.doRotate(week); err != nil {
			return 0, err
		}
	}

	if rl.currentFile == nil {
		return 0, fmt.Errorf("no log file available")
	}

	n, err = rl.currentFile.Write(p)
	rl.currentSize.Add(int64(n))
	return n, err
}

// cleanupOldLogs removes log files older than the retention period
func (rl *RotatingLogger) cleanupOldLogs() error {
	entries, err := os.ReadDir(rl.logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-rl.retention)
	var deletedCount int

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), logFilePrefix+"-") || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(rl.logDir, entry.Name())); err == nil {
				deletedCount++
			}
		}
	}

	if deletedCount > 0 {
		// Console only, to avoid recursing into the rotating writer
		fmt.Printf("Cleaned up %d old log files\n", deletedCount)
	}

	return nil
}

// runCleanup prunes expired log files once a day until Close cancels it.
func (rl *RotatingLogger) runCleanup() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	defer close(rl.cleanupDone)

	for {
		select {
		case <-rl.ctx.Done():
			return
		case <-ticker.C:
			if err := rl.cleanupOldLogs(); err != nil {
				slog.Warn("Failed to cleanup old logs", "error", err)
			}
		}
	}
}

// Close closes the rotating logger and stops background cleanup
func (rl *RotatingLogger) Close() error {
	rl.cancel()

	select {
	case <-rl.cleanupDone:
		// Cleanup finished
	case <-time.After(5 * time.Second):
		fmt.Printf("Warning: background cleanup goroutine did not shutdown gracefully\n")
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.currentFile != nil {
		return rl.currentFile.Close()
	}
	return nil
}

// parseLogLevel maps the LOG_LEVEL config value onto a slog level. Unknown
// values fall back to info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger configures slog with default level, retention and size limit
func SetupLogger(logDir string) *slog.Logger {
	return SetupLoggerWithOptions(logDir, "info", 4, defaultMaxFileSize)
}

// SetupLoggerWithOptions wires slog to a text console handler and a JSON
// rotating-file handler, both filtered at the configured level.
func SetupLoggerWithOptions(logDir, logLevel string, retentionWeeks int, maxFileSize int64) *slog.Logger {
	level := parseLogLevel(logLevel)

	consoleOnly := func(msg string, err error) *slog.Logger {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
		logger.Error(msg, "error", err)
		return logger
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return consoleOnly("Failed to create logs directory", err)
	}

	rotatingLogger := NewRotatingLogger(logDir, retentionWeeks, maxFileSize)

	rotatingLogger.mu.Lock()
	rotateErr := rotatingLogger.doRotate(getWeekKey(time.Now()))
	rotatingLogger.mu.Unlock()
	if rotateErr != nil {
		return consoleOnly("Failed to initialize rotating logger", rotateErr)
	}

	go rotatingLogger.runCleanup()

	// Console gets text format, file gets JSON format for better parsing
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	fileHandler := slog.NewJSONHandler(rotatingLogger, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(&teeHandler{
		handlers: []slog.Handler{consoleHandler, fileHandler},
	})
}

// teeHandler fans each record out to every underlying slog handler.
type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: handlers}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: handlers}
}
