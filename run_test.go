package xpipe_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jacoelho/xpipe"
)

func startRunner(t *testing.T, cfg xpipe.Config) (*os.File, <-chan error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})

	runner, err := xpipe.New(cfg, xpipe.WithInput(r))
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run() }()
	return w, errCh
}

func TestRunnerPipesLinesToCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	// Buffer smaller than the input forces the remainder through a
	// second child, hence the append.
	w, errCh := startRunner(t, xpipe.Config{
		BufferSize: 16,
		Command:    []string{"sh", "-c", "cat >> " + out},
	})

	input := "one\ntwo\nthree"
	_, err := io.WriteString(w, input)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, <-errCh)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, input, string(got))
}

func TestRunnerChildFailureAborts(t *testing.T) {
	w, errCh := startRunner(t, xpipe.Config{
		BufferSize: 64,
		Command:    []string{"sh", "-c", "cat > /dev/null; exit 1"},
	})

	_, err := io.WriteString(w, "x\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.Error(t, <-errCh)
}

func TestRunnerMissingCommandAborts(t *testing.T) {
	w, errCh := startRunner(t, xpipe.Config{
		BufferSize: 64,
		Command:    []string{"/this/command/does/not/exist"},
	})

	_, err := io.WriteString(w, "x\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.ErrorIs(t, <-errCh, os.ErrNotExist)
}
