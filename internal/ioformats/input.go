
package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadKeywords reads raw keywords from a CSV (expects a "keyword" header
// column), NDJSON, or plain text file (comma and/or newline separated).
// Entries are returned as written; normalization happens in the audit.
func ReadKeywords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(f)
	case ".ndjson", ".jsonl":
		return readNDJSON(f)
	default:
		return readText(f)
	}
}

func readCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	// find "keyword" column
	col := -1
	for i, h := range rows[0] {
		if h = strings.ToLower(strings.TrimSpace(h)); h == "keyword" || h == "keywords" {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, errors.New("csv must contain a 'keyword' header column")
	}
	var out []string
	for _, row := range rows[1:] {
		if col < len(row) {
			out = append(out, row[col])
		}
	}
	return out, nil
}

func readNDJSON(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		// allow raw string or {"keyword": "..."}
		if strings.HasPrefix(line, "{") {
			var obj map[string]any
			if err := json.Unmarshal([]byte(line), &obj); err == nil {
				if s, ok := obj["keyword"].(string); ok {
					out = append(out, s)
					continue
				}
			}
		}
		var s string
		if strings.HasPrefix(line, `"`) && json.Unmarshal([]byte(line), &s) == nil {
			out = append(out, s)
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func readText(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return strings.FieldsFunc(string(data), func(r rune) bool { return r == ',' || r == '\n' || r == '\r' }), nil
}
