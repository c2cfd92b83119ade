package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vixenbot/vixen/pkg/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	// Setup logger
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	s, err := New(t.TempDir(), l)
	require.NoError(t, err)
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := map[string]string{"a": "1", "b": "2"}
	require.NoError(t, s.Update("doc.json", &in, func() error { return nil }))

	out := make(map[string]string)
	require.NoError(t, s.View("doc.json", &out))
	require.Equal(t, in, out)
}

func TestStore_MissingDocumentReadsAsEmpty(t *testing.T) {
	s := newTestStore(t)

	out := make(map[string]string)
	require.NoError(t, s.View("missing.json", &out))
	require.Empty(t, out)
}

func TestStore_CorruptDocumentReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()

	// Setup logger
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	s, err := New(dir, l)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.json"), []byte("{not json"), 0o644))

	out := make(map[string]string)
	require.NoError(t, s.View("doc.json", &out))
	require.Empty(t, out)
}

func TestStore_FailedUpdateKeepsPriorVersion(t *testing.T) {
	s := newTestStore(t)

	in := map[string]string{"a": "1"}
	require.NoError(t, s.Update("doc.json", &in, func() error { return nil }))

	boom := errors.New("boom")
	data := make(map[string]string)
	err := s.Update("doc.json", &data, func() error {
		data["a"] = "overwritten"
		return boom
	})
	require.ErrorIs(t, err, boom)

	out := make(map[string]string)
	require.NoError(t, s.View("doc.json", &out))
	require.Equal(t, map[string]string{"a": "1"}, out)
}

func TestStore_Ping(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping())
}
