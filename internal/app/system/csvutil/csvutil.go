// internal/app/system/csvutil/csvutil.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MaxExportRows caps report exports so a runaway filter cannot stream the
// whole collection set into one download.
const MaxExportRows = 20000

// SanitizeField neutralizes spreadsheet formula injection. A field starting
// with =, +, - or @ would be executed by Excel on open; prefixing a single
// quote makes it render as text.
func SanitizeField(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}

// SanitizeRow applies SanitizeField to every field in place and returns it.
func SanitizeRow(row []string) []string {
	for i, f := range row {
		row[i] = SanitizeField(f)
	}
	return row
}

// NewExportWriter sets download headers, writes the UTF-8 BOM (so Excel
// treats the file as Unicode) and returns a CRLF csv.Writer. The caller
// must Flush when done.
func NewExportWriter(w http.ResponseWriter, filename string) *csv.Writer {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}

// FilenameFromQuery returns a sanitized CSV filename based on the "filename"
// query param, or prefix_YYYYMMDD_HHMMSS.csv if none is provided.
func FilenameFromQuery(r *http.Request, prefix string) string {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = prefix + "_" + time.Now().UTC().Format("20060102_150405") + ".csv"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		filename += ".csv"
	}
	return filename
}
