package wizard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// FileDownloader writes downloads into Dir. A file name of "-" writes to Stdout.
type FileDownloader struct {
	Dir    string
	Stdout io.Writer
}

// Download writes content followed by a newline to DownloadPath(fileName)
func (d FileDownloader) Download(content, fileName string) error {
	if fileName == "-" {
		out := d.Stdout
		if out == nil {
			out = os.Stdout
		}
		_, err := fmt.Fprintln(out, content)
		return err
	}

	path := d.DownloadPath(fileName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// DownloadPath returns where Download puts fileName. Absolute names are kept;
// relative names land in Dir.
func (d FileDownloader) DownloadPath(fileName string) string {
	if filepath.IsAbs(fileName) || d.Dir == "" {
		return fileName
	}
	return filepath.Join(d.Dir, fileName)
}

// ReportFileName builds a download name such as
// "prod-east-telemetry-report-8c3d4e6a.json" from a cluster label and report id.
func ReportFileName(cluster, reportID string) string {
	name := slug.Make(cluster)
	if name == "" {
		name = "ceph"
	}
	id := slug.Make(reportID)
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		return name + "-telemetry-report.json"
	}
	return name + "-telemetry-report-" + strings.TrimRight(id, "-") + ".json"
}
