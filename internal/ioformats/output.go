
package ioformats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"contentguard/internal/models"
)

const (
	NoTitle = "No match"
	NoURL   = "N/A"
)

var CSVHeader = []string{"Keyword", "Status", "Match Title", "Existing URL"}

// Row flattens a record into the export columns.
func Row(r models.ClassificationRecord) []string {
	title, link := NoTitle, NoURL
	if r.MatchedTitle != nil {
		title = *r.MatchedTitle
	}
	if r.MatchedURL != nil {
		link = *r.MatchedURL
	}
	return []string{r.Keyword, r.Tier.Label(), title, link}
}

func WriteCSV(w io.Writer, records []models.ClassificationRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
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

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders records as aligned plain-text columns.
func WriteTable(w io.Writer, records []models.ClassificationRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range CSVHeader {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	for _, r := range records {
		row := Row(r)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row[0], row[1], row[2], row[3])
	}
	return tw.Flush()
}
