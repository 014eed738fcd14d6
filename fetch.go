package wheatconv

// Dataset archive download and extraction.

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/agrovision/wheatconv/logger"
)

const fetchTimeout = 30 * time.Minute

// FetchArchive downloads url to dest. The body is streamed to a .part file
// next to dest and renamed into place once complete, so an interrupted
// download never leaves a truncated dest behind.
func FetchArchive(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("cannot create directory for %q: %w", dest, err)
	}

	partPath := fmt.Sprintf("%s.part-%s", dest, uuid.NewString()[:8])
	defer os.Remove(partPath)

	client := resty.New().SetTimeout(fetchTimeout)
	resp, err := client.R().
		SetContext(ctx).
		SetOutput(partPath).
		Get(url)
	if err != nil {
		return fmt.Errorf("download of %q failed: %w", url, err)
	}
	if resp.IsError() {
		return fmt.Errorf("download of %q failed: server returned %s", url, resp.Status())
	}

	if err := os.Rename(partPath, dest); err != nil {
		return fmt.Errorf("cannot move download into place: %w", err)
	}

	logger.S().Infof("Downloaded %s to %s", url, dest)
	return nil
}

// ExtractArchive unpacks the ZIP archive at zipPath into destDir. Entries
// whose paths would escape destDir are rejected.
func ExtractArchive(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("cannot open archive %q: %w", zipPath, err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	extracted := 0
	for _, f := range r.File {
		target := filepath.Join(destDir, filepath.FromSlash(f.Name))
		rel, err := filepath.Rel(destDir, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes the target directory", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := extractArchiveFile(f, target); err != nil {
			return err
		}
		extracted++
	}

	logger.S().Infof("Extracted %d files to %s", extracted, destDir)
	return nil
}

// extractArchiveFile writes a single archive entry to target.
func extractArchiveFile(f *zip.File, target string) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	in, err := f.Open()
	if err != nil {
		return err
	}
	defer closeWithErrCheck(in, &err)

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(out, &err)

	_, err = io.Copy(out, in)
	return err
}
