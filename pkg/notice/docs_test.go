package notice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registeredCodes() []string {
	var codes []string
	for _, d := range All() {
		codes = append(codes, d.Code)
	}
	return codes
}

func TestParseDocument(t *testing.T) {
	md := `# Notices

<a name="EmptyRowNotice"/>

### empty_row

A row is empty.

<a name="ThreadExecutionError"/>

### thread_execution_error

#### Fields
`
	doc, err := ParseDocument(strings.NewReader(md))
	require.NoError(t, err)
	assert.Equal(t, []string{"EmptyRowNotice", "ThreadExecutionError"}, doc.Anchors)
	assert.Equal(t, []string{"empty_row", "thread_execution_error"}, doc.Codes)
}

func TestCheckDocumentation(t *testing.T) {
	require.NoError(t, CheckDocumentation(registeredCodes()))

	codes := registeredCodes()
	err := CheckDocumentation(append(codes[1:], "made_up_code"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `code "`+codes[0]+`" is not in the notice document`)
	assert.Contains(t, err.Error(), `unknown code "made_up_code"`)
}

func TestCheckDocument_Anchors(t *testing.T) {
	var names []string
	for _, d := range All() {
		names = append(names, d.Name)
	}

	require.NoError(t, CheckDocument(Document{Anchors: names, Codes: registeredCodes()}))

	err := CheckDocument(Document{Anchors: names[1:], Codes: registeredCodes()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), names[0]+": no anchor")
}

func TestBuiltinKindsAreDocumented(t *testing.T) {
	for _, d := range All() {
		assert.NotEmpty(t, d.Description, d.Name)
		for _, f := range d.Fields {
			assert.NotEmpty(t, f.Description, "%s.%s", d.Name, f.Name)
		}
	}
}
