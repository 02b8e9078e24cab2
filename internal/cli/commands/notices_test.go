package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/feedlint/internal/cli/testutil"
	"github.com/leapstack-labs/feedlint/pkg/notice"
)

func TestNewNoticesCommand(t *testing.T) {
	cmd := NewNoticesCommand()

	assert.Equal(t, "notices [code]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)
	for _, flag := range []string{"severity", "format"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNoticesCommand_MarkdownReference(t *testing.T) {
	out, err := run(t, NewNoticesCommand(), "--format", "markdown")
	require.NoError(t, err)

	testutil.AssertValidMarkdown(t, out)
	doc, err := notice.ParseDocument(strings.NewReader(out))
	require.NoError(t, err)
	assert.NoError(t, notice.CheckDocument(doc))
}

func TestNoticesCommand_FilterBySeverity(t *testing.T) {
	out, err := run(t, NewNoticesCommand(), "--severity", "info", "-f", "json")
	require.NoError(t, err)

	var c struct {
		Notices []struct{ Code, Severity string }
	}
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	require.NotEmpty(t, c.Notices)
	for _, n := range c.Notices {
		assert.Equal(t, "info", n.Severity, n.Code)
	}

	_, err = run(t, NewNoticesCommand(), "--severity", "fatal")
	assert.Error(t, err)
}

func TestNoticesCommand_ShowOne(t *testing.T) {
	out, err := run(t, NewNoticesCommand(), "stop_time_with_only_arrival_or_departure_time", "-f", "text")
	require.NoError(t, err)
	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "StopTimeWithOnlyArrivalOrDepartureTimeNotice")
	assert.Contains(t, out, "specifiedField")

	_, err = run(t, NewNoticesCommand(), "no_such_notice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
