package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/m-mizutani/ecsync/pkg/domain/model"
	"github.com/m-mizutani/ecsync/pkg/domain/types"
	"github.com/m-mizutani/ecsync/pkg/utils/apitree"
)

// FetchAPIData downloads the API descriptor asset of release
func (uc *Sync) FetchAPIData(ctx context.Context, release *model.Release) (*model.APIPayload, error) {
	logger := ctxlog.From(ctx)
	logger.Info("Fetching API definitions", "asset", uc.assetName, "tag", release.TagName)

	asset, ok := release.FindAsset(uc.assetName)
	if !ok {
		err := goerr.New(fmt.Sprintf("no %s asset found for %s", uc.assetName, release.TagName),
			goerr.V("asset", uc.assetName),
			goerr.V("tag", release.TagName),
			goerr.T(model.ErrTagNotFound),
		)
		logger.Error("API definitions asset is missing", "error", err)
		return nil, err
	}

	body, err := uc.httpClient.Get(ctx, asset.DownloadURL)
	if err != nil {
		logger.Error("Unable to fetch API definitions", "error", err, "url", asset.DownloadURL)
		return nil, goerr.Wrap(err, "failed to download API definitions", goerr.V("tag", release.TagName))
	}

	var records []map[string]any
	if err := json.Unmarshal(body, &records); err != nil {
		logger.Error("Unable to parse API definitions", "error", err, "url", asset.DownloadURL)
		return nil, goerr.Wrap(err, "failed to parse API definitions",
			goerr.V("url", asset.DownloadURL),
			goerr.V("tag", release.TagName),
			goerr.T(model.ErrTagFetch),
		)
	}

	if !isRecordList(records) {
		err := goerr.New("API definitions are not a list of records",
			goerr.V("url", asset.DownloadURL),
			goerr.V("tag", release.TagName),
			goerr.T(model.ErrTagFetch),
		)
		logger.Error("Unable to parse API definitions", "error", err, "url", asset.DownloadURL)
		return nil, err
	}

	logger.Info("Fetched API definitions", "records", len(records))
	return &model.APIPayload{
		Raw:     json.RawMessage(body),
		Records: records,
	}, nil
}

// WriteAPIData writes the payload as received, re-indented with two spaces
func (uc *Sync) WriteAPIData(ctx context.Context, payload *model.APIPayload) error {
	logger := ctxlog.From(ctx)
	logger.Info("Writing API definitions (without changes)", "path", types.APIDataPath)

	var buf bytes.Buffer
	if err := json.Indent(&buf, payload.Raw, "", "  "); err != nil {
		return goerr.Wrap(err, "failed to format API definitions", goerr.T(model.ErrTagWrite))
	}

	if err := uc.workspace.WriteFile(types.APIDataPath, buf.Bytes()); err != nil {
		logger.Error("Unable to write API definitions", "error", err)
		return err
	}
	return nil
}

// WriteAPIDescriptions writes every description of the payload as a flat YAML
// mapping keyed by dotted path and returns the number of keys written
func (uc *Sync) WriteAPIDescriptions(ctx context.Context, payload *model.APIPayload) (int, error) {
	logger := ctxlog.From(ctx)

	descriptions := apitree.Flatten(payload.Records)
	logger.Info("Writing API descriptions", "path", types.APIDescriptionsPath, "count", len(descriptions))

	data, err := yaml.Marshal(descriptions)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to encode API descriptions", goerr.T(model.ErrTagWrite))
	}

	if err := uc.workspace.WriteFile(types.APIDescriptionsPath, data); err != nil {
		logger.Error("Unable to write API descriptions", "error", err)
		return 0, err
	}
	return len(descriptions), nil
}

// isRecordList reports whether records came from a JSON array of objects
func isRecordList(records []map[string]any) bool {
	if records == nil {
		return false
	}
	for _, record := range records {
		if record == nil {
			return false
		}
	}
	return true
}
