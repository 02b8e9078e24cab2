package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/feedlint/pkg/notice"
	_ "github.com/leapstack-labs/feedlint/pkg/validator/rules"
)

func TestWriteNoticeDocs_SatisfiesDocumentCheck(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNoticeDocs(&buf, notice.All()))

	doc, err := notice.ParseDocument(&buf)
	require.NoError(t, err)
	assert.Len(t, doc.Codes, len(notice.All()))
	assert.NoError(t, notice.CheckDocument(doc))
}

func TestWriteNoticeDocs_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNoticeDocs(&buf, notice.All()))
	out := buf.String()

	assert.Contains(t, out, "<a name=\"EmptyRowNotice\"/>\n\n### empty_row\n")
	assert.Contains(t, out, "## Errors")
	assert.Contains(t, out, "## Warnings")
	assert.Contains(t, out, "| `csvRowNumber` |")
	assert.Contains(t, out, "[Original Python validator implementation](https://github.com/google/transitfeed)")
}

func TestWriteCatalog(t *testing.T) {
	descs := notice.All()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCatalog(&buf, FormatJSON, descs))

		var c struct {
			Notices []struct{ Code, Name, Severity string }
			Count   struct{ Total int }
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &c))
		assert.Equal(t, len(descs), c.Count.Total)
		assert.Equal(t, descs[0].Code, c.Notices[0].Code)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCatalog(&buf, FormatText, descs))
		assert.Contains(t, buf.String(), "foreign_key_violation")
		assert.Contains(t, buf.String(), "feedlint notices <code>")
	})
}

func TestWriteNotice(t *testing.T) {
	d := notice.DuplicateKey.Descriptor()

	var text bytes.Buffer
	require.NoError(t, WriteNotice(&text, FormatText, d))
	assert.Contains(t, text.String(), "DuplicateKeyNotice")
	assert.Contains(t, text.String(), "oldCsvRowNumber")

	var md bytes.Buffer
	require.NoError(t, WriteNotice(&md, FormatMarkdown, d))
	doc, err := notice.ParseDocument(&md)
	require.NoError(t, err)
	assert.Equal(t, []string{"duplicate_key"}, doc.Codes)
	assert.Equal(t, []string{"DuplicateKeyNotice"}, doc.Anchors)
}
