package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ecsync/pkg/domain/model"
	"github.com/m-mizutani/ecsync/pkg/domain/types"
)

// FetchDocs downloads the source zipball of tag and returns the markdown files
// under its docs directory, excluding every file with an "api" path segment.
// Any error discards everything read so far.
func (uc *Sync) FetchDocs(ctx context.Context, tag string) ([]model.Document, error) {
	logger := ctxlog.From(ctx)
	logger.Info("Fetching docs", "owner", uc.owner, "repo", uc.repo, "tag", tag)

	zipData, err := uc.githubClient.DownloadZipball(ctx, uc.owner, uc.repo, tag)
	if err != nil {
		logger.Error("Unable to fetch docs", "error", err, "tag", tag)
		return nil, goerr.Wrap(err, "failed to download zipball", goerr.V("tag", tag))
	}

	logger.Debug("Downloaded zipball", "size_bytes", len(zipData), "tag", tag)

	docs, err := extractDocs(zipData)
	if err != nil {
		logger.Error("Unable to read docs from zipball", "error", err, "tag", tag)
		return nil, goerr.Wrap(err, "failed to extract docs", goerr.V("tag", tag), goerr.T(model.ErrTagFetch))
	}

	filtered := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.HasSegment(types.ReservedDocSegment) {
			continue
		}
		filtered = append(filtered, doc)
	}

	logger.Info("Fetched docs",
		"total", len(docs),
		"excluded", len(docs)-len(filtered),
		"tag", tag,
	)
	return filtered, nil
}

// extractDocs reads every markdown file under <top>/docs/ of a GitHub zipball,
// in archive order, with filenames relative to the docs directory
func extractDocs(zipData []byte) ([]model.Document, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(zipData), int64(len(zipData)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create zip reader")
	}

	var docs []model.Document
	for _, file := range zipReader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		filename, ok := docFilename(file.Name)
		if !ok {
			continue
		}
		if !isSafePath(filename) {
			return nil, goerr.New("invalid file path detected", goerr.V("file", file.Name))
		}

		content, err := readZipFile(file)
		if err != nil {
			return nil, err
		}

		docs = append(docs, model.Document{
			Filename: filename,
			Content:  content,
		})
	}

	return docs, nil
}

// docFilename maps "<top>/docs/<rel>.md" to "<rel>.md"
func docFilename(name string) (string, bool) {
	_, rest, found := strings.Cut(name, "/")
	if !found {
		return "", false
	}

	rel, found := strings.CutPrefix(rest, types.DocsDir+"/")
	if !found || !strings.HasSuffix(rel, ".md") {
		return "", false
	}
	return rel, true
}

func isSafePath(rel string) bool {
	if path.IsAbs(rel) {
		return false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." || seg == "" {
			return false
		}
	}
	return true
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open file in zip", goerr.V("file", file.Name))
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read file in zip", goerr.V("file", file.Name))
	}
	return data, nil
}

// WriteDocs writes every document to docs/<filename> below the output root, in input order
func (uc *Sync) WriteDocs(ctx context.Context, docs []model.Document) error {
	logger := ctxlog.From(ctx)
	logger.Info("Writing markdown docs", "count", len(docs))

	for _, doc := range docs {
		relPath := path.Join(types.DocsDir, doc.Filename)
		if err := uc.workspace.WriteFile(relPath, doc.Content); err != nil {
			logger.Error("Unable to write doc", "error", err, "path", relPath)
			return err
		}
		logger.Debug("Wrote doc", "path", relPath)
	}

	return nil
}
