// Package watch converts presentations as they appear in a directory.
// It monitors the input directories with fsnotify and runs each new or
// modified deck through a Handler, one file at a time.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/klytics/deckdoc/internal/convert"
)

// Config holds the watcher configuration.
type Config struct {
	Directories []string      `json:"directories"`
	Recursive   bool          `json:"recursive"`
	Debounce    time.Duration `json:"debounce"` // Quiet period before a file is processed
}

// Event represents a file event that was detected and processed.
type Event struct {
	Time      time.Time `json:"time"`
	Path      string    `json:"path"`
	Operation string    `json:"operation"`
	Output    string    `json:"output,omitempty"`
	Warnings  int       `json:"warnings,omitempty"`
	Status    string    `json:"status"` // "converted", "error"
	Error     string    `json:"error,omitempty"`
}

// Result is what a Handler reports for one file.
type Result struct {
	Output   string
	Warnings int
}

// Handler is called for every settled presentation file.
type Handler func(ctx context.Context, path string) (Result, error)

// Watcher monitors directories for presentations and converts them.
type Watcher struct {
	Config  Config
	Logger  *log.Logger
	Handler Handler

	mu       sync.Mutex
	events   []Event
	debounce map[string]*time.Timer
	started  time.Time

	// convMu serializes handler calls so only one document is built at a time.
	convMu  sync.Mutex
	watcher *fsnotify.Watcher
}

// Status represents the current watcher status.
type Status struct {
	Running     bool     `json:"running"`
	Directories []string `json:"directories"`
	EventCount  int      `json:"eventCount"`
	StartedAt   string   `json:"startedAt,omitempty"`
}

// New creates a new Watcher with the given configuration.
func New(config Config, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	if config.Debounce <= 0 {
		config.Debounce = 500 * time.Millisecond
	}

	return &Watcher{
		Config:   config,
		Logger:   log.New(os.Stderr, "[watch] ", log.LstdFlags),
		Handler:  handler,
		watcher:  fsw,
		debounce: make(map[string]*time.Timer),
	}, nil
}

// ConvertHandler returns a Handler that converts each presentation into
// outputDir in format to.
func ConvertHandler(c *convert.Converter, outputDir, to string) Handler {
	return func(ctx context.Context, path string) (Result, error) {
		out := convert.OutputPath(path, outputDir, to)
		report, err := c.ConvertFile(ctx, path, out, to)
		if err != nil {
			return Result{}, err
		}
		return Result{Output: out, Warnings: len(report.Warnings)}, nil
	}
}

// Start begins watching the configured directories. It blocks until the
// context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.Config.Directories {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("could not resolve %s: %w", dir, err)
		}

		if w.Config.Recursive {
			if err := w.addRecursive(absDir); err != nil {
				return err
			}
		} else if err := w.watcher.Add(absDir); err != nil {
			return fmt.Errorf("could not watch %s: %w", absDir, err)
		}
	}

	w.mu.Lock()
	w.started = time.Now()
	w.mu.Unlock()
	w.Logger.Printf("Watching %d directory(ies) for presentations", len(w.Config.Directories))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Println("Stopping watcher")
			w.stopTimers()
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Printf("Error: %v", err)
		}
	}
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != dir {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !Matches(event.Name) {
		return
	}

	path := event.Name
	op := event.Op.String()

	// Office writes a file in several steps; wait for it to settle.
	w.mu.Lock()
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(w.Config.Debounce, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		w.mu.Unlock()
		w.processFile(ctx, path, op)
	})
	w.mu.Unlock()
}

// Matches reports whether path is a presentation the watcher converts.
// Office lock files and editor temp files are ignored.
func Matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".~") {
		return false
	}
	return convert.IsPresentation(base)
}

func (w *Watcher) processFile(ctx context.Context, path, operation string) {
	if ctx.Err() != nil {
		return
	}

	w.convMu.Lock()
	evt := Event{Time: time.Now(), Path: path, Operation: operation}
	if w.Handler == nil {
		evt.Status = "skipped"
		w.Logger.Printf("Matched %s [no handler]", path)
	} else if res, err := w.Handler(ctx, path); err != nil {
		evt.Status = "error"
		evt.Error = err.Error()
		w.Logger.Printf("Error converting %s: %v", path, err)
	} else {
		evt.Status = "converted"
		evt.Output = res.Output
		evt.Warnings = res.Warnings
		w.Logger.Printf("Converted %s -> %s", path, res.Output)
	}
	w.convMu.Unlock()

	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.debounce {
		t.Stop()
		delete(w.debounce, path)
	}
}

// GetStatus returns the current watcher status.
func (w *Watcher) GetStatus() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Status{
		Running:     !w.started.IsZero(),
		Directories: w.Config.Directories,
		EventCount:  len(w.events),
	}
	if s.Running {
		s.StartedAt = w.started.Format(time.RFC3339)
	}
	return s
}

// GetEvents returns all recorded events.
func (w *Watcher) GetEvents() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}

const pidFile = ".deckdoc-watch.pid"

// WritePIDFile writes the current process ID to the PID file in the given directory.
func WritePIDFile(dir string) error {
	path := filepath.Join(dir, pidFile)
	return os.WriteFile(path, []byte(fmt.Sprintf("%d", os.Getpid())), 0644)
}

// ReadPIDFile reads the PID from the PID file.
func ReadPIDFile(dir string) (int, error) {
	data, err := os.ReadFile(filepath.Join(dir, pidFile))
	if err != nil {
		return 0, err
	}
	var pid int
	if _, err := fmt.Sscanf(string(data), "%d", &pid); err != nil {
		return 0, fmt.Errorf("invalid PID file: %w", err)
	}
	return pid, nil
}

// RemovePIDFile removes the PID file.
func RemovePIDFile(dir string) error {
	return os.Remove(filepath.Join(dir, pidFile))
}
