package bulk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var csvHeader = []string{"file_path", "folder_name", "timestamp", "status", "error", "response_json"}

// saveRecord пишет результат по файлу в JSON и CSV с общим именем
func (r *Runner) saveRecord(rec Record) error {
	base := fmt.Sprintf("result_%s_%s_%s", rec.FolderName, r.fileStamp(), uuid.NewString()[:6])
	dir := r.cfg.ResultsPath

	if err := writeJSON(filepath.Join(dir, base+".json"), rec); err != nil {
		return err
	}
	return writeRecordCSV(filepath.Join(dir, base+".csv"), rec)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeRecordCSV(path string, rec Record) error {
	status, body := "", ""
	if rec.Response != nil {
		if rec.Response.Status != 0 {
			status = fmt.Sprint(rec.Response.Status)
		}
		if rec.Response.JSON != nil {
			if data, err := json.Marshal(rec.Response.JSON); err == nil {
				body = string(data)
			}
		}
	}

	row := []string{rec.FilePath, rec.FolderName, rec.Timestamp, status, rec.ErrorText(), body}
	return writeCSV(path, csvHeader, [][]string{row})
}

// WriteXLSX сохраняет отчет по прогону: лист результатов и лист итогов
func WriteXLSX(path string, s *Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	const results = "Results"
	if err := f.SetSheetName("Sheet1", results); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	headers := []string{"Folder", "File", "Request ID", "HTTP status", "Verdict", "Risk level", "Error"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(results, cell, h)
	}
	f.SetCellStyle(results, "A1", "G1", headerStyle)

	for i, rec := range s.Results {
		row := i + 2
		status := 0
		if rec.Response != nil {
			status = rec.Response.Status
		}
		f.SetCellValue(results, fmt.Sprintf("A%d", row), rec.FolderName)
		f.SetCellValue(results, fmt.Sprintf("B%d", row), rec.FilePath)
		f.SetCellValue(results, fmt.Sprintf("C%d", row), rec.RequestID)
		if status != 0 {
			f.SetCellValue(results, fmt.Sprintf("D%d", row), status)
		}
		f.SetCellValue(results, fmt.Sprintf("E%d", row), rec.Verdict())
		f.SetCellValue(results, fmt.Sprintf("F%d", row), rec.RiskLevel())
		f.SetCellValue(results, fmt.Sprintf("G%d", row), rec.ErrorText())
	}
	f.SetColWidth(results, "A", "A", 20)
	f.SetColWidth(results, "B", "B", 50)
	f.SetColWidth(results, "C", "C", 40)
	f.SetColWidth(results, "D", "F", 12)
	f.SetColWidth(results, "G", "G", 40)

	const totals = "Summary"
	if _, err := f.NewSheet(totals); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	rows := [][]any{
		{"Total files", s.TotalFiles},
		{"Processed successfully", s.ProcessedSuccessfully},
		{"Failed", s.Failed},
		{"Timestamp", s.Timestamp},
	}
	for i, kv := range rows {
		f.SetCellValue(totals, fmt.Sprintf("A%d", i+1), kv[0])
		f.SetCellValue(totals, fmt.Sprintf("B%d", i+1), kv[1])
	}
	f.SetColWidth(totals, "A", "A", 25)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save xlsx report: %w", err)
	}
	return nil
}
