package di_test

import (
	"context"
	"maps"
	"sync"
	"testing"

	"github.com/goliatone/go-sitegen/internal/adapters/storage"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/internal/logging/gologger"
	"github.com/goliatone/go-sitegen/internal/svg"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

func TestContainerLogsConfiguration(t *testing.T) {
	rec := newRecordingProvider()
	if _, err := di.NewContainer(testConfig(),
		di.WithSourceFS(siteSources()),
		di.WithStorage(storage.NewMemory()),
		di.WithLoggerProvider(rec),
	); err != nil {
		t.Fatalf("new container: %v", err)
	}

	entry := rec.find("container.configured")
	if entry == nil {
		t.Fatalf("expected container.configured entry, got %#v", rec.entries)
	}
	if got := entry.fields["module"]; got != "sitegen.di" {
		t.Fatalf("expected module sitegen.di, got %v", got)
	}
	if got := entry.fields["engine"]; got != "html" {
		t.Fatalf("expected engine html, got %v", got)
	}
}

func TestContainerUsesGoLoggerProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "json"

	container, err := di.NewContainer(cfg, di.WithSourceFS(siteSources()), di.WithStorage(storage.NewMemory()))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected gologger provider, got %T", container.LoggerProvider())
	}
}

func svgOptions() svg.Options {
	return svg.Options{UseCurrentColor: true}
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{}
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{provider: p, fields: map[string]any{"logger": name}}
}

func (p *recordingProvider) record(entry recordedEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

var _ interfaces.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)
	return &recordingLogger{provider: l.provider, fields: merged}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return &recordingLogger{provider: l.provider, fields: maps.Clone(l.fields)}
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := maps.Clone(l.fields)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok && key != "" {
			fields[key] = args[i+1]
		}
	}
	l.provider.record(recordedEntry{level: level, msg: msg, fields: fields})
}
