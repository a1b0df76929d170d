package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeViews(t *testing.T, raw string) []weekView {
	t.Helper()
	var views []weekView
	require.NoError(t, json.Unmarshal([]byte(raw), &views))
	return views
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"of", "range", "weeks", "between"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestOfCmd(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "of", "2025-03-29")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-04 W1")
	assert.Contains(t, out, "2025-03-29")

	_, err = execute(t, "of", "03/29/2025")
	assert.ErrorContains(t, err, "expected YYYY-MM-DD")
}

func TestRangeCmd_JSON(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "range", "2025", "8", "1", "--json")
	require.NoError(t, err)

	views := decodeViews(t, out)
	require.Len(t, views, 1)
	assert.Equal(t, weekView{
		Label:      "2025-08 W1",
		Key:        "2025-08-w1",
		StartDate:  "2025-07-26",
		EndDate:    "2025-08-01",
		CrossMonth: true,
	}, views[0])
}

func TestRangeCmd_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "range", "2025", "13", "1")
	assert.ErrorContains(t, err, "invalid month")

	_, err = execute(t, "range", "2025", "8", "six")
	assert.ErrorContains(t, err, `invalid week "six"`)

	_, err = execute(t, "range", "2025", "8")
	assert.Error(t, err)
}

func TestWeeksCmd_Rules(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "weeks", "2025", "7", "--json")
	require.NoError(t, err)
	anchor := decodeViews(t, out)
	require.Len(t, anchor, 4)
	assert.Equal(t, "2025-07 W2", anchor[0].Label)

	out, err = execute(t, "weeks", "2025", "7", "--rule", "majority", "--json")
	require.NoError(t, err)
	majority := decodeViews(t, out)
	require.Len(t, majority, 5)
	assert.Equal(t, "2025-07 W1", majority[0].Label)

	_, err = execute(t, "weeks", "2025", "7", "--rule", "biweekly")
	assert.ErrorContains(t, err, "invalid month rule")
}

func TestBetweenCmd(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "between", "2025-07-01", "2025-07-31")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "WEEK"))
	assert.True(t, strings.HasPrefix(lines[1], "2025-07 W1"))
	assert.True(t, strings.HasPrefix(lines[5], "2025-07 W5"))

	_, err = execute(t, "between", "2025-07-31", "2025-07-01")
	assert.ErrorContains(t, err, "invalid date range")
}
