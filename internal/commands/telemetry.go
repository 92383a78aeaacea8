package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// TelemetryStatus classifies how a command run ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess  TelemetryStatus = "success"
	TelemetryStatusFailed   TelemetryStatus = "failed"
	TelemetryStatusCanceled TelemetryStatus = "canceled"
	TelemetryStatusTimeout  TelemetryStatus = "timeout"
)

// TelemetryInfo is handed to telemetry callbacks once a command returns.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Interrupted reports whether the run was cut short by its context.
func (i TelemetryInfo) Interrupted() bool {
	return i.Status == TelemetryStatusCanceled || i.Status == TelemetryStatusTimeout
}

// Telemetry is invoked after every command execution.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs one entry per execution on logger.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{"status", string(info.Status), "duration_ms", info.Duration.Milliseconds()}
		switch {
		case info.Status == TelemetryStatusSuccess:
			entry.Info("sitegen.command.completed", args...)
		case info.Interrupted():
			entry.Warn("sitegen.command.interrupted", append(args, "error", info.Error)...)
		default:
			entry.Error("sitegen.command.failed", append(args, "error", info.Error)...)
		}
	}
}

func contextStatus(err error) TelemetryStatus {
	if errors.Is(err, context.DeadlineExceeded) {
		return TelemetryStatusTimeout
	}
	return TelemetryStatusCanceled
}
