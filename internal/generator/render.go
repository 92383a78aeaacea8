package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/pages"
	"golang.org/x/sync/errgroup"
)

// RenderedPage captures the output of a successfully rendered page.
type RenderedPage struct {
	Page     pages.Page
	Slug     string
	Kind     pages.Kind
	Output   string
	Template string
	HTML     string
	Duration time.Duration
	Checksum string
}

// RenderDiagnostic records rendering timing and errors for individual pages.
type RenderDiagnostic struct {
	Slug     string
	Output   string
	Template string
	Duration time.Duration
	Err      error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
}

// renderAll renders plan and returns one outcome per page in plan order.
// Pages whose output path was claimed by an earlier page fail without
// rendering.
func (s *service) renderAll(ctx context.Context, plan []pages.Page) []renderOutcome {
	outcomes := make([]renderOutcome, len(plan))
	claimed := make(map[string]string, len(plan))
	pending := make([]int, 0, len(plan))
	for i, page := range plan {
		output := page.OutputPath()
		key := strings.ToLower(output)
		if owner, ok := claimed[key]; ok {
			err := fmt.Errorf("%w: %s rendered by %s and %s", ErrDuplicateOutput, output, owner, page.Slug())
			outcomes[i] = failedOutcome(page, err)
			logging.WithPageContext(s.logger, page.Slug(), output).Error("generator.page.duplicate_output", "owner", owner, "error", err)
			continue
		}
		claimed[key] = page.Slug()
		pending = append(pending, i)
	}

	workers := s.cfg.Workers
	if workers <= 1 || len(pending) <= 1 {
		for _, i := range pending {
			outcomes[i] = s.renderPage(ctx, plan[i])
		}
		return outcomes
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, i := range pending {
		group.Go(func() error {
			outcomes[i] = s.renderPage(groupCtx, plan[i])
			return nil
		})
	}
	_ = group.Wait()
	return outcomes
}

func (s *service) renderPage(ctx context.Context, page pages.Page) renderOutcome {
	output := page.OutputPath()
	logger := logging.WithPageContext(s.logger, page.Slug(), output)
	if err := ctx.Err(); err != nil {
		return failedOutcome(page, err)
	}

	renderCtx := ctx
	if s.cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, s.cfg.RenderTimeout)
		defer cancel()
	}

	start := time.Now()
	html, err := s.deps.Renderer.Render(renderCtx, page)
	duration := time.Since(start)
	if err != nil {
		err = fmt.Errorf("generator: render %s: %w", output, err)
		logger.Error("generator.page.failed", "page", page.Slug(), "output", output, "error", err)
		outcome := failedOutcome(page, err)
		outcome.diagnostic.Duration = duration
		return outcome
	}
	logger.Debug("generator.page.rendered", "duration", duration)
	return renderOutcome{
		page: RenderedPage{
			Page:     page,
			Slug:     page.Slug(),
			Kind:     page.Kind(),
			Output:   output,
			Template: page.Template(),
			HTML:     html,
			Duration: duration,
			Checksum: checksum([]byte(html)),
		},
		diagnostic: RenderDiagnostic{
			Slug:     page.Slug(),
			Output:   output,
			Template: page.Template(),
			Duration: duration,
		},
	}
}

func failedOutcome(page pages.Page, err error) renderOutcome {
	return renderOutcome{
		diagnostic: RenderDiagnostic{
			Slug:     page.Slug(),
			Output:   page.OutputPath(),
			Template: page.Template(),
			Err:      err,
		},
		err: err,
	}
}
