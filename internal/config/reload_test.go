// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
}

const reloadBaseDoc = `train:
  epochs: 15
  batch_size: 16
  metrics: [acc, f1]
  indicator: acc
`

func newTestHolder(t *testing.T, path string) *ConfigHolder {
	t.Helper()
	loader := NewLoader(path, "test")
	initial, err := loader.Load()
	require.NoError(t, err)
	require.NoError(t, Validate(initial))
	return NewConfigHolder(initial, loader, path)
}

func TestConfigHolder_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, reloadBaseDoc)

	holder := newTestHolder(t, path)
	assert.Equal(t, 15, holder.Get().Train.Epochs)

	writeConfig(t, path, `train:
  epochs: 30
  batch_size: 16
  metrics: [acc, f1]
  indicator: acc
`)
	require.NoError(t, holder.Reload(context.Background()))
	assert.Equal(t, 30, holder.Get().Train.Epochs)
}

func TestConfigHolder_ReloadKeepsOldConfigOnValidationFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, reloadBaseDoc)

	holder := newTestHolder(t, path)

	// indicator not in metrics: the new document must be rejected.
	writeConfig(t, path, `train:
  epochs: 30
  metrics: [f1]
  indicator: acc
`)
	err := holder.Reload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "train.indicator")
	assert.Equal(t, 15, holder.Get().Train.Epochs, "old config must survive a failed reload")
}

func TestConfigHolder_ReloadKeepsOldConfigOnParseFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, reloadBaseDoc)

	holder := newTestHolder(t, path)

	writeConfig(t, path, "train:\n  epochs: [broken\n")
	require.Error(t, holder.Reload(context.Background()))
	assert.Equal(t, 15, holder.Get().Train.Epochs)
}

func TestConfigHolder_NotifiesListeners(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, reloadBaseDoc)

	holder := newTestHolder(t, path)

	ch := make(chan AppConfig, 1)
	holder.RegisterListener(ch)

	writeConfig(t, path, `train:
  epochs: 20
  batch_size: 16
  metrics: [acc, f1]
  indicator: acc
`)
	require.NoError(t, holder.Reload(context.Background()))

	select {
	case got := <-ch:
		assert.Equal(t, 20, got.Train.Epochs)
	default:
		t.Fatal("listener was not notified")
	}
}

func TestConfigHolder_WatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, reloadBaseDoc)

	holder := newTestHolder(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, holder.StartWatcher(ctx))
	defer holder.Stop()

	writeConfig(t, path, `train:
  epochs: 25
  batch_size: 16
  metrics: [acc, f1]
  indicator: acc
`)

	// Debounce is 500ms; poll for up to 5s.
	deadline := time.After(5 * time.Second)
	for holder.Get().Train.Epochs != 25 {
		select {
		case <-deadline:
			t.Fatalf("watcher did not apply the new config, epochs still %d", holder.Get().Train.Epochs)
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestConfigHolder_WatcherDisabledWithoutPath(t *testing.T) {
	loader := NewLoader("", "test")
	initial, err := loader.Load()
	require.NoError(t, err)

	holder := NewConfigHolder(initial, loader, "")
	require.NoError(t, holder.StartWatcher(context.Background()))
	holder.Stop()
}
