package bulk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func newArchive(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "deal_a", InputFileName), []byte(`{"counterparty_name": "Acme", "contract_amount": 100.50}`))

	cp1251, err := charmap.Windows1251.NewEncoder().String(`{"counterparty_name": "ТОО Рахат"}`)
	require.NoError(t, err)
	writeFile(t, filepath.Join(root, "deal_b", InputFileName), []byte(cp1251))

	writeFile(t, filepath.Join(root, "deal_c", InputFileName), []byte(`{broken`))
	writeFile(t, filepath.Join(root, "deal_c", "other.json"), []byte(`{}`))
	return root
}

type capturedRequest struct {
	Data      map[string]any `json:"data"`
	RequestID string         `json:"request_id"`
}

func TestFindFiles(t *testing.T) {
	root := newArchive(t)
	files, err := FindFiles(root)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.True(t, strings.HasSuffix(files[0], filepath.Join("deal_a", InputFileName)))
	assert.True(t, strings.HasSuffix(files[2], filepath.Join("deal_c", InputFileName)))
}

func TestRun(t *testing.T) {
	var mu sync.Mutex
	var captured []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compliance/check", r.URL.Path)
		var req capturedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		captured = append(captured, req)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"verdict": "flag", "risk_level": "medium", "checks": {}}`))
	}))
	defer server.Close()

	results := t.TempDir()
	runner := NewRunner(Config{
		BaseURL:     server.URL + "/",
		ArchivePath: newArchive(t),
		ResultsPath: results,
		Concurrency: 2,
		Retries:     1,
		XLSX:        true,
	}, nil)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 2, summary.ProcessedSuccessfully)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 3)

	broken := summary.Results[2]
	assert.Equal(t, "deal_c", broken.FolderName)
	assert.Contains(t, broken.Error, "JSON read error")
	assert.Nil(t, broken.Response)

	ok := summary.Results[0]
	assert.True(t, ok.Success())
	assert.Equal(t, "flag", ok.Verdict())
	assert.Equal(t, "medium", ok.RiskLevel())
	assert.True(t, strings.HasPrefix(ok.RequestID, "bulk_"))

	require.Len(t, captured, 2)
	names := []string{}
	for _, c := range captured {
		names = append(names, c.Data["counterparty_name"].(string))
		assert.NotEmpty(t, c.RequestID)
	}
	assert.ElementsMatch(t, []string{"Acme", "ТОО Рахат"}, names)

	jsonFiles, _ := filepath.Glob(filepath.Join(results, "result_*.json"))
	csvFiles, _ := filepath.Glob(filepath.Join(results, "result_*.csv"))
	assert.Len(t, jsonFiles, 3)
	assert.Len(t, csvFiles, 3)

	require.FileExists(t, summary.SummaryPath)
	var saved map[string]any
	data, err := os.ReadFile(summary.SummaryPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, 2.0, saved["processed_successfully"])

	xlsxFiles, _ := filepath.Glob(filepath.Join(results, "summary_*.xlsx"))
	require.Len(t, xlsxFiles, 1)
	book, err := excelize.OpenFile(xlsxFiles[0])
	require.NoError(t, err)
	defer book.Close()

	header, err := book.GetCellValue("Results", "E1")
	require.NoError(t, err)
	assert.Equal(t, "Verdict", header)
	verdict, err := book.GetCellValue("Results", "E2")
	require.NoError(t, err)
	assert.Equal(t, "flag", verdict)
	total, err := book.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "3", total)
}

func TestRun_HTTPErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "only", InputFileName), []byte(`{}`))

	runner := NewRunner(Config{
		BaseURL:     server.URL,
		ArchivePath: root,
		ResultsPath: t.TempDir(),
		Retries:     3,
		BackoffBase: time.Millisecond,
	}, nil)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, summary.Failed)

	rec := summary.Results[0]
	require.NotNil(t, rec.Response)
	assert.False(t, rec.Response.OK)
	assert.Equal(t, http.StatusBadGateway, rec.Response.Status)
	assert.Equal(t, "HTTP 502", rec.ErrorText())
	assert.Contains(t, rec.Response.Text, "upstream down")
}

func TestRun_NetworkErrorRetried(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "only", InputFileName), []byte(`{}`))

	runner := NewRunner(Config{
		BaseURL:     url,
		ArchivePath: root,
		ResultsPath: t.TempDir(),
		Retries:     2,
		BackoffBase: time.Millisecond,
	}, nil)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	rec := summary.Results[0]
	require.NotNil(t, rec.Response)
	assert.Contains(t, rec.Response.Error, "Network error")
	assert.Zero(t, rec.Response.Status)
}

func TestRun_MissingArchive(t *testing.T) {
	runner := NewRunner(Config{ArchivePath: filepath.Join(t.TempDir(), "missing")}, nil)
	_, err := runner.Run(context.Background())
	assert.Error(t, err)
}

func TestRun_EmptyArchive(t *testing.T) {
	results := filepath.Join(t.TempDir(), "results")
	runner := NewRunner(Config{ArchivePath: t.TempDir(), ResultsPath: results}, nil)
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalFiles)
	assert.NoDirExists(t, results)
}

func TestBackoff(t *testing.T) {
	base := 500 * time.Millisecond
	assert.Equal(t, 500*time.Millisecond, Backoff(base, 1))
	assert.Equal(t, time.Second, Backoff(base, 2))
	assert.Equal(t, 2*time.Second, Backoff(base, 3))
	assert.Equal(t, 500*time.Millisecond, Backoff(base, 0))
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()

	bom := filepath.Join(dir, "bom.json")
	writeFile(t, bom, append([]byte("\xef\xbb\xbf"), []byte(`{"amount": 12345678901234567890}`)...))
	data, err := ReadInput(bom)
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901234567890"), data.(map[string]any)["amount"])

	cp := filepath.Join(dir, "cp.json")
	encoded, err := charmap.Windows1251.NewEncoder().String(`{"name": "Банк ЦентрКредит"}`)
	require.NoError(t, err)
	writeFile(t, cp, []byte(encoded))
	data, err = ReadInput(cp)
	require.NoError(t, err)
	assert.Equal(t, "Банк ЦентрКредит", data.(map[string]any)["name"])
}
