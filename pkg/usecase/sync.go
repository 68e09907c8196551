package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/ecsync/pkg/domain/interfaces"
	"github.com/m-mizutani/ecsync/pkg/domain/model"
	"github.com/m-mizutani/ecsync/pkg/domain/types"
	"github.com/m-mizutani/ecsync/pkg/infra/metrics"
)

// Sync fetches release content from GitHub and writes it to a workspace.
// Every stage runs after the previous one returns; the first error aborts the run.
type Sync struct {
	githubClient interfaces.GitHubClient
	httpClient   interfaces.HTTPClient
	workspace    interfaces.Workspace
	recorder     interfaces.MetricsRecorder

	owner      string
	repo       string
	assetName  string
	websiteURL string
}

// SyncOption is a functional option for Sync
type SyncOption func(*Sync)

// WithRepository sets the upstream repository
func WithRepository(owner, repo string) SyncOption {
	return func(uc *Sync) {
		uc.owner = owner
		uc.repo = repo
	}
}

// WithAssetName sets the name of the release asset holding the API descriptor
func WithAssetName(name string) SyncOption {
	return func(uc *Sync) {
		uc.assetName = name
	}
}

// WithWebsiteURL sets the location of the website content file
func WithWebsiteURL(url string) SyncOption {
	return func(uc *Sync) {
		uc.websiteURL = url
	}
}

// WithMetrics sets the recorder of stage and run observations
func WithMetrics(recorder interfaces.MetricsRecorder) SyncOption {
	return func(uc *Sync) {
		uc.recorder = recorder
	}
}

// NewSync creates a new Sync use case
func NewSync(
	githubClient interfaces.GitHubClient,
	httpClient interfaces.HTTPClient,
	workspace interfaces.Workspace,
	opts ...SyncOption,
) *Sync {
	uc := &Sync{
		githubClient: githubClient,
		httpClient:   httpClient,
		workspace:    workspace,
		recorder:     metrics.NoopRecorder{},
		owner:        types.DefaultOwner,
		repo:         types.DefaultRepo,
		assetName:    types.DefaultAssetName,
		websiteURL:   types.DefaultWebsiteURL,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run executes the whole pipeline for the release tagged with tag, or for the
// latest release when tag is empty
func (uc *Sync) Run(ctx context.Context, tag string) (*model.RunResult, error) {
	runID := uuid.NewString()
	logger := ctxlog.From(ctx).With("run_id", runID)
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Starting content sync",
		"owner", uc.owner,
		"repo", uc.repo,
		"tag", tag,
		"output", uc.workspace.Root(),
	)

	start := time.Now()
	result, err := uc.run(ctx, tag)
	uc.recorder.ObserveRun(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	result.RunID = runID
	logger.Info("Content sync completed",
		"tag", result.TagName,
		"documents", result.Documents,
		"descriptions", result.Descriptions,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (uc *Sync) run(ctx context.Context, tag string) (*model.RunResult, error) {
	if _, err := stage(ctx, uc, "reset_workspace", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, uc.ResetWorkspace(ctx)
	}); err != nil {
		return nil, err
	}

	release, err := stage(ctx, uc, "resolve_release", func(ctx context.Context) (*model.Release, error) {
		return uc.ResolveRelease(ctx, tag)
	})
	if err != nil {
		return nil, err
	}

	docs, err := stage(ctx, uc, "fetch_docs", func(ctx context.Context) ([]model.Document, error) {
		return uc.FetchDocs(ctx, release.TagName)
	})
	if err != nil {
		return nil, err
	}

	if _, err := stage(ctx, uc, "write_docs", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, uc.WriteDocs(ctx, docs)
	}); err != nil {
		return nil, err
	}

	payload, err := stage(ctx, uc, "fetch_api_data", func(ctx context.Context) (*model.APIPayload, error) {
		return uc.FetchAPIData(ctx, release)
	})
	if err != nil {
		return nil, err
	}

	if _, err := stage(ctx, uc, "write_api_data", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, uc.WriteAPIData(ctx, payload)
	}); err != nil {
		return nil, err
	}

	descriptions, err := stage(ctx, uc, "write_api_descriptions", func(ctx context.Context) (int, error) {
		return uc.WriteAPIDescriptions(ctx, payload)
	})
	if err != nil {
		return nil, err
	}

	content, err := stage(ctx, uc, "fetch_website_content", uc.FetchWebsiteContent)
	if err != nil {
		return nil, err
	}

	if _, err := stage(ctx, uc, "write_website_content", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, uc.WriteWebsiteContent(ctx, content)
	}); err != nil {
		return nil, err
	}

	return &model.RunResult{
		TagName:      release.TagName,
		OutputDir:    uc.workspace.Root(),
		Documents:    len(docs),
		Descriptions: descriptions,
	}, nil
}

// stage runs fn and records its duration and outcome
func stage[T any](ctx context.Context, uc *Sync, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	logger := ctxlog.From(ctx).With("stage", name)
	ctx = ctxlog.With(ctx, logger)

	start := time.Now()
	v, err := fn(ctx)
	elapsed := time.Since(start)
	uc.recorder.ObserveStage(name, elapsed, err)

	logger.Debug("Stage finished",
		"duration_ms", elapsed.Milliseconds(),
		"result", metrics.Result(err),
	)
	return v, err
}

// ResetWorkspace removes the output tree so that the run starts clean
func (uc *Sync) ResetWorkspace(ctx context.Context) error {
	logger := ctxlog.From(ctx)
	logger.Info("Removing output directory", "root", uc.workspace.Root())

	if err := uc.workspace.Reset(); err != nil {
		logger.Error("Unable to remove output directory", "error", err)
		return err
	}
	return nil
}
