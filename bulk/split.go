package bulk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// SplitResult итог разбиения CSV
type SplitResult struct {
	Files     []string
	Rows      []int
	TotalRows int
}

// SplitCSV делит CSV на parts файлов с заголовком в каждом.
// outPattern содержит %d для номера части, начиная с 1. Последняя часть получает остаток.
// После записи части перечитываются и сверяется общее число строк.
func SplitCSV(input string, parts int, outPattern string) (*SplitResult, error) {
	if parts < 1 {
		return nil, fmt.Errorf("parts must be at least 1, got %d", parts)
	}

	header, rows, err := readCSV(input)
	if err != nil {
		return nil, err
	}

	total := len(rows)
	chunk := total / parts
	res := &SplitResult{TotalRows: total}

	for i := 0; i < parts; i++ {
		start := i * chunk
		end := start + chunk
		if i == parts-1 {
			end = total
		}

		name := fmt.Sprintf(outPattern, i+1)
		if err := writeCSV(name, header, rows[start:end]); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, name)
		res.Rows = append(res.Rows, end-start)
	}

	written := 0
	for _, name := range res.Files {
		_, partRows, err := readCSV(name)
		if err != nil {
			return nil, fmt.Errorf("failed to verify %s: %w", name, err)
		}
		written += len(partRows)
	}
	if written != total {
		return res, fmt.Errorf("row count mismatch: source %d, parts %d", total, written)
	}
	return res, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return header, rows, nil
}

func writeCSV(path string, header []string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return writeRows(f, path, header, rows)
}

func writeRows(out io.Writer, path string, header []string, rows [][]string) error {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
