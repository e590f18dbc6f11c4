package wizard

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDownloader(t *testing.T) {
	dir := t.TempDir()
	d := FileDownloader{Dir: filepath.Join(dir, "reports")}

	require.NoError(t, d.Download("{}", "report.json"))

	data, err := os.ReadFile(filepath.Join(dir, "reports", "report.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestFileDownloader_AbsolutePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	d := FileDownloader{Dir: "/nonexistent"}

	assert.Equal(t, path, d.DownloadPath(path))
	require.NoError(t, d.Download("[]", path))
}

func TestFileDownloader_Stdout(t *testing.T) {
	var buf bytes.Buffer
	d := FileDownloader{Stdout: &buf}

	require.NoError(t, d.Download(`{"a": 1}`, "-"))
	assert.Equal(t, "{\"a\": 1}\n", buf.String())
}

func TestReportFileName(t *testing.T) {
	tests := []struct {
		cluster, id, want string
	}{
		{"Prod East", "8c3d4e6a-0b5f-4d1e", "prod-east-telemetry-report-8c3d4e6a.json"},
		{"", "42", "ceph-telemetry-report-42.json"},
		{"lab", "", "lab-telemetry-report.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReportFileName(tt.cluster, tt.id))
	}
}
