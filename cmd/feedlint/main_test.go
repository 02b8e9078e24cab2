// Package main provides tests for the feedlint CLI.
package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/feedlint/internal/cli"
	"github.com/leapstack-labs/feedlint/internal/cli/config"
	"github.com/leapstack-labs/feedlint/internal/cli/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "feedlint")
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "feedlint "+cli.Version)
}

func TestHelpCommand(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"validate", "notices", "history", "completion", "version"} {
		assert.Contains(t, out, name)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "feedlint")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestValidateCommandJSON(t *testing.T) {
	feed := testutil.SetupTestFeed(t, testutil.ValidFeed)

	out, err := execute(t, "validate", feed, "--output", "json", "--workers", "2")
	require.NoError(t, err)

	var report struct {
		Summary struct {
			Errors int `json:"errors"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Zero(t, report.Summary.Errors)
}

func TestValidateCommandFails(t *testing.T) {
	feed := testutil.SetupTestZip(t, testutil.BrokenFeed())

	_, err := execute(t, "validate", feed, "--output", "text")
	assert.Error(t, err)
}

func TestUnknownFlag(t *testing.T) {
	_, err := execute(t, "validate", "--no-such-flag")
	assert.Error(t, err)
}
