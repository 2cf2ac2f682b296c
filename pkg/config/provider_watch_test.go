package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestYAMLProvider_Watch(t *testing.T) {
	writeConfig := func(t *testing.T, path, body string) {
		t.Helper()
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	notify := func(ch chan struct{}) func() {
		return func() {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}

	t.Run("Should invoke the callback when the file changes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ankigen.yaml")
		writeConfig(t, path, "output:\n  sheet: Deck\n")

		provider := NewYAMLProvider(path)
		fired := make(chan struct{}, 1)
		require.NoError(t, provider.Watch(t.Context(), notify(fired)))

		// Let the watcher goroutine pick up the registration first.
		time.Sleep(100 * time.Millisecond)
		writeConfig(t, path, "output:\n  sheet: Changed\n")

		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("callback never fired after a file write")
		}
	})

	t.Run("Should fan out to every callback registered by repeated Watch calls", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ankigen.yaml")
		writeConfig(t, path, "filter:\n  min_level: N4\n")

		provider := NewYAMLProvider(path)
		first := make(chan struct{}, 1)
		second := make(chan struct{}, 1)
		require.NoError(t, provider.Watch(t.Context(), notify(first)))
		require.NoError(t, provider.Watch(t.Context(), notify(second)))

		time.Sleep(100 * time.Millisecond)
		writeConfig(t, path, "filter:\n  min_level: N2\n")

		channels := map[string]chan struct{}{"first": first, "second": second}
		for name, ch := range channels {
			select {
			case <-ch:
			case <-time.After(2 * time.Second):
				t.Fatalf("%s callback never fired", name)
			}
		}
	})
}
