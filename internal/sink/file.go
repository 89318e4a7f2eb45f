package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-jobcrawl/internal/scraper"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const SheetName = "Jobs"

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatFor picks the format from the file extension. Anything that is not
// .csv or .json is written as a workbook.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	default:
		return FormatXLSX
	}
}

// FileSink rewrites one output file per Persist. The file is written to a
// temporary sibling and renamed into place, so a crash mid-write leaves the
// previous version intact.
type FileSink struct {
	path   string
	format Format
	logger *zap.Logger
}

func NewFileSink(path string, logger *zap.Logger) *FileSink {
	return &FileSink{path: path, format: FormatFor(path), logger: logger}
}

func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Persist(ctx context.Context, records []scraper.JobRecord) error {
	if err := ctx.Err(); err != nil {
		return &PersistError{Target: s.path, Err: err}
	}
	view := Prepare(records)

	var buf bytes.Buffer
	if err := Encode(&buf, s.format, view); err != nil {
		return &PersistError{Target: s.path, Err: err}
	}
	if err := writeAtomic(s.path, buf.Bytes()); err != nil {
		return &PersistError{Target: s.path, Err: err}
	}

	s.logger.Info("💾 Results saved", zap.String("path", s.path), zap.Int("records", len(view)))
	return nil
}

// Encode writes already prepared records in the given format.
func Encode(w io.Writer, format Format, records []scraper.JobRecord) error {
	switch format {
	case FormatCSV:
		return encodeCSV(w, records)
	case FormatJSON:
		return encodeJSON(w, records)
	case FormatXLSX:
		return encodeXLSX(w, records)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func encodeXLSX(w io.Writer, records []scraper.JobRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setRow(f, 1, Columns); err != nil {
		return err
	}
	for i, r := range records {
		if err := setRow(f, i+2, Row(r)); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func encodeCSV(w io.Writer, records []scraper.JobRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(Row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonRecord struct {
	Company        string `json:"company"`
	Description    string `json:"description"`
	Salary         string `json:"salary"`
	Location       string `json:"location"`
	URL            string `json:"url"`
	ScrapedAt      string `json:"scraped_at"`
	KeywordContext string `json:"keyword_context"`
}

func encodeJSON(w io.Writer, records []scraper.JobRecord) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		out = append(out, jsonRecord{
			Company:        r.Company,
			Description:    r.Description,
			Salary:         r.SalaryText,
			Location:       r.Location,
			URL:            r.URL,
			ScrapedAt:      r.ScrapedAt.Format(timeLayout),
			KeywordContext: r.KeywordContext,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}
