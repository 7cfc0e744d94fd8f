package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnvelope struct {
	Header
	Count   int      `json:"count"`
	Players []string `json:"players"`
}

func fixedClock() time.Time {
	return time.Date(2025, 11, 3, 7, 45, 9, 123456000, time.UTC)
}

func TestSaveWithLatest(t *testing.T) {
	dir := t.TempDir()
	s := New(dir).WithClock(fixedClock)

	env := testEnvelope{
		Header:  s.Header("2025-26", "Liga ACB"),
		Count:   1,
		Players: []string{"Jahlil Okafor <C>"},
	}
	path, err := s.SaveWithLatest("unified_american_players", s.Stamp(), env)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "unified_american_players_20251103_074509.json"), path)

	stamped, err := os.ReadFile(path)
	require.NoError(t, err)
	latest, err := os.ReadFile(filepath.Join(dir, "unified_american_players_latest.json"))
	require.NoError(t, err)
	assert.Equal(t, stamped, latest)

	text := string(stamped)
	assert.Contains(t, text, `"export_date": "2025-11-03T07:45:09.123456"`)
	assert.Contains(t, text, "Jahlil Okafor <C>")
	assert.True(t, strings.HasPrefix(text, "{\n  \"export_date\""))

	var back testEnvelope
	require.NoError(t, Read(path, &back))
	assert.Equal(t, env, back)
}

func TestLatestIsLexicalLast(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	for _, stamp := range []string{"20250101_000000", "20250301_000000", "20250201_000000"} {
		_, err := s.Save("american_players", stamp, testEnvelope{Count: 1})
		require.NoError(t, err)
	}
	_, err := s.Save("american_players_summary", "20991231_000000", testEnvelope{})
	require.NoError(t, err)

	path, err := s.Latest("american_players_2*.json")
	require.NoError(t, err)
	assert.Equal(t, "american_players_20250301_000000.json", filepath.Base(path))
}

func TestLatestNotFound(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.Latest("schedule_*.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var env testEnvelope
	err = s.ReadName("missing.json", &env)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var env testEnvelope
	err := Read(path, &env)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestWriteCreatesDirectoryAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output", "json")
	s := New(dir)

	_, err := s.Write("clubs_x.json", testEnvelope{})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "clubs_x.json", entries[0].Name())
}
