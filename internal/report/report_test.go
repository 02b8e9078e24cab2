package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/feedlint/pkg/notice"
)

func sampleSnapshot() *notice.Snapshot {
	c := notice.NewContainer()
	c.Add(notice.EmptyRow.New(notice.F("filename", "stops.txt"), notice.F("csvRowNumber", 4)))
	c.Add(notice.EmptyRow.New(notice.F("filename", "stops.txt"), notice.F("csvRowNumber", 2)))
	c.Add(notice.EmptyRow.New(notice.F("filename", "trips.txt"), notice.F("csvRowNumber", 7)))
	c.Add(notice.DuplicateKey.New(
		notice.F("newCsvRowNumber", 3),
		notice.F("oldCsvRowNumber", 1),
		notice.F("filename", "stops.txt"),
		notice.F("fieldName", "stop_id"),
		notice.F("fieldValue", "S1")))
	c.Add(notice.UnknownFile.New(notice.F("filename", "extra.txt")))
	return c.Snapshot()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"JSON", FormatJSON, false},
		{"md", FormatMarkdown, false},
		{" yaml ", FormatYAML, false},
		{"text", FormatText, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, FormatMarkdown, FormatAuto.Resolve(&buf))
	assert.Equal(t, FormatJSON, FormatJSON.Resolve(&buf))
	assert.False(t, IsTerminal(&buf))
}

func TestBuild(t *testing.T) {
	r := Build("feed.zip", sampleSnapshot(), Options{MaxSamples: 2})

	assert.Equal(t, Summary{Errors: 1, Warnings: 3, Infos: 1, Total: 5}, r.Summary)
	require.Len(t, r.Notices, 3)

	assert.Equal(t, "duplicate_key", r.Notices[0].Code)
	assert.Equal(t, "empty_row", r.Notices[1].Code)
	assert.Equal(t, 3, r.Notices[1].Total)
	assert.Len(t, r.Notices[1].Samples, 2, "samples are capped")
	assert.Equal(t, "unknown_file", r.Notices[2].Code)

	first := r.Notices[1].Samples[0]
	assert.Equal(t, "filename=stops.txt csvRowNumber=2", first.String())
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, Build("feed.zip", sampleSnapshot(), Options{})))

	var decoded struct {
		Feed    string
		Summary Summary
		Notices []struct {
			Code          string
			Severity      string
			TotalNotices  int
			SampleNotices []map[string]any
		}
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "feed.zip", decoded.Feed)
	assert.Equal(t, 5, decoded.Summary.Total)
	require.Len(t, decoded.Notices, 3)
	assert.Equal(t, "error", decoded.Notices[0].Severity)
	assert.Equal(t, 3, decoded.Notices[1].TotalNotices)
	assert.Equal(t, "S1", decoded.Notices[0].SampleNotices[0]["fieldValue"])

	// context keys keep their declaration order
	out := buf.String()
	assert.Less(t, strings.Index(out, `"filename": "stops.txt"`), strings.Index(out, `"oldCsvRowNumber"`))
	assert.Less(t, strings.Index(out, `"oldCsvRowNumber"`), strings.Index(out, `"newCsvRowNumber"`))
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, Build("", sampleSnapshot(), Options{MaxSamples: 1})))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.NotContains(t, decoded, "feed")

	notices, ok := decoded["notices"].([]any)
	require.True(t, ok)
	require.Len(t, notices, 3)
	first := notices[0].(map[string]any)
	assert.Equal(t, "duplicate_key", first["code"])
	assert.Equal(t, "error", first["severity"])

	samples := first["sampleNotices"].([]any)
	require.Len(t, samples, 1)
	assert.Equal(t, 1, samples[0].(map[string]any)["oldCsvRowNumber"])
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, Build("feed.zip", sampleSnapshot(), Options{Verbose: true})))

	out := buf.String()
	assert.Contains(t, out, "Validation report: feed.zip")
	assert.Contains(t, out, "duplicate_key")
	assert.Contains(t, out, "1 error, 3 warnings, 1 info notice")
	assert.Contains(t, out, "filename=trips.txt csvRowNumber=7")
	assert.NotContains(t, out, "\x1b[", "no escape sequences when not on a terminal")
}

func TestWrite_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, Build("", notice.NewSnapshot(nil), Options{})))
	assert.Contains(t, buf.String(), "No notices.")
}

func TestWrite_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatAuto, Build("feed.zip", sampleSnapshot(), Options{Verbose: true})))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Validation report: `feed.zip`"))
	assert.Contains(t, out, "**Errors:** 1 | **Warnings:** 3 | **Infos:** 1")
	assert.Contains(t, out, "| `empty_row` | warning | 3 |")
	assert.Contains(t, out, "| filename | fieldName | fieldValue | oldCsvRowNumber | newCsvRowNumber |")
	assert.Contains(t, out, "| stops.txt | stop_id | S1 | 1 | 3 |")
}
