package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tbourn/rocketmentor/internal/domain"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRoot_ListsCommands(t *testing.T) {
	out, err := run(t, "", "--help")
	require.NoError(t, err)
	for _, name := range []string{"serve", "parse-week", "parse-time", "coach"} {
		require.Contains(t, out, name)
	}
}

func TestParseWeek_FromStdin(t *testing.T) {
	out, err := run(t, "Mon: draft deck\nWed: client call", "parse-week")
	require.NoError(t, err)

	var cards []domain.KanbanCard
	require.NoError(t, json.Unmarshal([]byte(out), &cards))
	require.Len(t, cards, 2)
	require.Equal(t, "draft deck", cards[0].Title)
	require.Equal(t, domain.Monday, cards[0].Day)
	require.Equal(t, domain.Wednesday, cards[1].Day)
	require.NotEmpty(t, cards[0].ID)
	require.NotEqual(t, cards[0].ID, cards[1].ID)
}

func TestParseWeek_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.txt")
	require.NoError(t, os.WriteFile(path, []byte("Thursday:\nprep workshop"), 0o600))

	out, err := run(t, "ignored", "parse-week", path)
	require.NoError(t, err)

	var cards []domain.KanbanCard
	require.NoError(t, json.Unmarshal([]byte(out), &cards))
	require.Len(t, cards, 1)
	require.Equal(t, domain.Thursday, cards[0].Day)
	require.Equal(t, domain.CardWorkshop, cards[0].Type)
}

func TestParseWeek_MissingFile(t *testing.T) {
	_, err := run(t, "", "parse-week", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestParseTime(t *testing.T) {
	out, err := run(t, "", "parse-time", "8:30", "pm")
	require.NoError(t, err)
	require.Equal(t, "20:30\t8:30 PM\n", out)

	_, err = run(t, "", "parse-time", "later")
	require.ErrorContains(t, err, `unrecognized time "later"`)
}

func TestCoach_PrintsRuleWhenAsked(t *testing.T) {
	out, err := run(t, "", "coach", "--rule", "I have too many tasks, how do I prioritize?")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "[prioritize]\n"), out)

	plain, err := run(t, "", "coach", "I have too many tasks, how do I prioritize?")
	require.NoError(t, err)
	require.Equal(t, strings.TrimPrefix(out, "[prioritize]\n"), plain)
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, loadEnvFile(""))
	require.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ROCKETMENTOR_CLI_TEST=from-file\n"), 0o600))
	t.Setenv("ROCKETMENTOR_CLI_TEST", "")
	require.NoError(t, os.Unsetenv("ROCKETMENTOR_CLI_TEST"))

	require.NoError(t, loadEnvFile(path))
	require.Equal(t, "from-file", os.Getenv("ROCKETMENTOR_CLI_TEST"))
}
