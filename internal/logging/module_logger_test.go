package logging

import (
	"context"
	"maps"
	"testing"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := map[string]any{}
	maps.Copy(copied, fields)
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "sitegen.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	logger := ModuleLogger(provider, generatorModule)

	if len(provider.requested) != 1 || provider.requested[0] != generatorModule {
		t.Fatalf("expected module %s, got %v", generatorModule, provider.requested)
	}
	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields to be applied once, got %d", len(rec.fields))
	}
	if got := rec.fields[0]["module"]; got != generatorModule {
		t.Fatalf("expected module field %s, got %v", generatorModule, got)
	}
	logger.Info("with provider")
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestNamedModuleLoggers(t *testing.T) {
	cases := map[string]func(interfaces.LoggerProvider) interfaces.Logger{
		contentModule:   ContentLogger,
		pagesModule:     PagesLogger,
		generatorModule: GeneratorLogger,
		serverModule:    ServerLogger,
	}
	for module, fn := range cases {
		provider := &stubProvider{logger: &recordingLogger{}}
		_ = fn(provider)
		if len(provider.requested) == 0 || provider.requested[0] != module {
			t.Fatalf("expected %s request, got %v", module, provider.requested)
		}
	}
}

func TestWithFileContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	_ = WithFileContext(rec, "blog", "  ")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if _, ok := rec.fields[0][fieldFile]; ok {
		t.Fatalf("expected blank file to be dropped, got %v", rec.fields[0])
	}
	if rec.fields[0][fieldKind] != "blog" {
		t.Fatalf("expected kind field, got %v", rec.fields[0])
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"build": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"page": "index"})
	fields := ContextFields(ctx)
	if fields["build"] != "a" || fields["page"] != "index" {
		t.Fatalf("unexpected fields %v", fields)
	}
	fields["build"] = "mutated"
	if ContextFields(ctx)["build"] != "a" {
		t.Fatalf("expected ContextFields to return a copy")
	}
}
