package acquisition

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultDownloadURLTemplate turns an opaque id into a direct download URL.
const DefaultDownloadURLTemplate = "https://drive.google.com/uc?id=%s&export=download"

// HTTPClient is the transport used for page and archive requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads archives and unpacks them into a scratch directory.
type Fetcher struct {
	client      HTTPClient
	urlTemplate string
	scratchDir  string
	logger      *logrus.Entry
}

// NewFetcher returns a fetcher unpacking into scratchDir.
func NewFetcher(client HTTPClient, urlTemplate, scratchDir string) *Fetcher {
	if urlTemplate == "" {
		urlTemplate = DefaultDownloadURLTemplate
	}
	return &Fetcher{
		client:      client,
		urlTemplate: urlTemplate,
		scratchDir:  scratchDir,
		logger:      logrus.WithField("component", "fetcher"),
	}
}

// DownloadURL returns the archive URL for a descriptor.
func (f *Fetcher) DownloadURL(d LinkDescriptor) string {
	return fmt.Sprintf(f.urlTemplate, d.OpaqueID)
}

// ArchivePath returns the transient archive location for a descriptor.
func (f *Fetcher) ArchivePath(d LinkDescriptor) string {
	return filepath.Join(f.scratchDir, "arquivo_"+d.OpaqueID+".zip")
}

// FetchAndUnpack downloads the descriptor's archive, unpacks it and deletes
// it. It returns the names of the unpacked entries relative to the scratch
// directory. Failures are logged and yield no entries.
func (f *Fetcher) FetchAndUnpack(ctx context.Context, d LinkDescriptor) []string {
	names, _ := f.Fetch(ctx, d)
	return names
}

// Fetch is FetchAndUnpack that also returns the download or unpack failure.
// An archive holding only directories yields no entries and no error.
func (f *Fetcher) Fetch(ctx context.Context, d LinkDescriptor) ([]string, error) {
	logger := f.logger.WithField("id", d.OpaqueID)
	names, err := f.fetchAndUnpack(ctx, d)
	if err != nil {
		logger.WithError(err).Error("Failed to download archive")
		return nil, err
	}
	logger.WithField("entries", len(names)).Info("Archive extracted")
	return names, nil
}

func (f *Fetcher) fetchAndUnpack(ctx context.Context, d LinkDescriptor) ([]string, error) {
	if d.OpaqueID == "" || strings.ContainsAny(d.OpaqueID, `/\`) {
		return nil, errors.Errorf("invalid opaque id %q", d.OpaqueID)
	}

	archive := f.ArchivePath(d)
	defer os.Remove(archive)

	url := f.DownloadURL(d)
	f.logger.WithField("url", url).Info("Downloading archive")
	size, err := f.download(ctx, url, archive)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, errors.Errorf("archive %s is empty", archive)
	}

	return f.unpack(archive)
}

func (f *Fetcher) download(ctx context.Context, url, dst string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrap(err, "create request")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "fetch archive")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("archive request returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(f.scratchDir, 0o755); err != nil {
		return 0, errors.Wrapf(err, "create scratch directory %s", f.scratchDir)
	}
	out, err := os.Create(dst)
	if err != nil {
		return 0, errors.Wrapf(err, "create %s", dst)
	}
	n, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, errors.Wrapf(err, "write %s", dst)
	}
	return n, nil
}

// unpack extracts every regular entry of archive into the scratch
// directory. On failure the entries written so far are removed.
func (f *Fetcher) unpack(archive string) ([]string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, errors.Wrapf(err, "open archive %s", archive)
	}
	defer zr.Close()

	root, err := filepath.Abs(f.scratchDir)
	if err != nil {
		return nil, errors.Wrap(err, "resolve scratch directory")
	}

	var names []string
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		target := filepath.Join(root, filepath.FromSlash(entry.Name))
		if rel, err := filepath.Rel(root, target); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			f.logger.WithField("entry", entry.Name).Warn("Skipping archive entry outside the scratch directory")
			continue
		}
		if err := extractEntry(entry, target); err != nil {
			for _, name := range names {
				os.Remove(filepath.Join(root, filepath.FromSlash(name)))
			}
			return nil, errors.Wrapf(err, "extract %s", entry.Name)
		}
		names = append(names, entry.Name)
	}
	return names, nil
}

func extractEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return err
	}
	return dst.Close()
}
