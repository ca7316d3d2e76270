
package ioformats

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentguard/internal/models"
)

func ptr[T any](v T) *T { return &v }

var sampleRecords = []models.ClassificationRecord{
	{
		Keyword:      "wordpress hosting guide",
		Tier:         models.TierExact,
		MatchedURL:   ptr("https://example.com/blog/wordpress-hosting-guide/"),
		MatchedTitle: ptr("Wordpress Hosting Guide"),
	},
	{Keyword: "kubernetes, at scale", Tier: models.TierNone},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Keyword", "Status", "Match Title", "Existing URL"}, rows[0])
	assert.Equal(t, []string{"wordpress hosting guide", "Duplicate (Exact Slug)", "Wordpress Hosting Guide", "https://example.com/blog/wordpress-hosting-guide/"}, rows[1])
	assert.Equal(t, []string{"kubernetes, at scale", "Clear", "No match", "N/A"}, rows[2])
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Duplicate (Exact Slug)", Row(models.ClassificationRecord{Tier: models.TierExact})[1])
	assert.Equal(t, "Duplicate (Partial Slug)", Row(models.ClassificationRecord{Tier: models.TierPartial})[1])
	assert.Equal(t, "Similar Topic Exists", Row(models.ClassificationRecord{Tier: models.TierSemantic})[1])
	assert.Equal(t, "Clear", Row(models.ClassificationRecord{Tier: models.TierNone})[1])
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNDJSON(&buf, sampleRecords))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"tier":"exact"`)
	assert.NotContains(t, lines[1], "matchedUrl")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleRecords))
	out := buf.String()
	assert.Contains(t, out, "Existing URL")
	assert.Contains(t, out, "Duplicate (Exact Slug)")
	assert.Contains(t, out, "No match")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestReadKeywords(t *testing.T) {
	kws, err := ReadKeywords(writeFile(t, "k.csv", "id,Keyword\n1,How To Create A Website\n2, seo tips \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"How To Create A Website", " seo tips "}, kws)

	kws, err = ReadKeywords(writeFile(t, "k.ndjson", "{\"keyword\":\"seo tips\"}\n\"web hosting\"\nraw line\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"seo tips", "web hosting", "raw line"}, kws)

	kws, err = ReadKeywords(writeFile(t, "k.txt", "seo tips, web hosting\nemail marketing\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"seo tips", " web hosting", "email marketing"}, kws)
}

func TestReadKeywordsCSVNeedsHeader(t *testing.T) {
	_, err := ReadKeywords(writeFile(t, "k.csv", "url\nhttps://example.com\n"))
	assert.Error(t, err)
}
