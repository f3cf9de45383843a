// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidevit/trainconf/internal/validate"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	loader := NewLoader("", "test")
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Train.Epochs)
	assert.Equal(t, 16, cfg.Train.BatchSize)
	assert.Equal(t, 4, cfg.Train.NumWorkers)
	assert.Equal(t, validate.CriterionCrossEntropy, cfg.Train.Criterion)
	assert.False(t, cfg.Train.LossWeight.IsSet())
	assert.InDelta(t, 0.0001, cfg.Train.LossWeightDecayRate, 1e-12)
	assert.Equal(t, []validate.Metric{validate.MetricAccuracy}, cfg.Train.Metrics)
	assert.Equal(t, validate.MetricAccuracy, cfg.Train.Indicator)
	assert.Equal(t, 5, cfg.Train.SaveInterval)
	assert.Equal(t, 1, cfg.Train.EvalInterval)
	assert.True(t, cfg.Train.PinMemory)
	assert.Nil(t, cfg.Train.SWAStartEpoch)
	assert.Nil(t, cfg.Train.SAMStartEpoch)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.ListenAddr)

	require.NoError(t, Validate(cfg))
}

func TestLoad_ReferenceFile(t *testing.T) {
	loader := NewLoader(filepath.Join("testdata", "config.yaml"), "test")
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Train.Epochs)
	assert.Equal(t, validate.CriterionCrossEntropy, cfg.Train.Criterion)
	assert.Len(t, cfg.Train.Metrics, 6)
	assert.Equal(t, validate.MetricAccuracy, cfg.Train.Indicator)
	assert.InDelta(t, 0.1, cfg.Train.LabelSmoothing, 1e-12)
	require.NotNil(t, cfg.Train.SWAStartEpoch)
	assert.Equal(t, 8, *cfg.Train.SWAStartEpoch)
	assert.Nil(t, cfg.Train.SAMStartEpoch)
	assert.Equal(t, PlanSWA, cfg.Train.ActivePlan())

	require.NoError(t, Validate(cfg))
}

func TestLoad_PlanAFile(t *testing.T) {
	loader := NewLoader(filepath.Join("testdata", "plan_a.yaml"), "test")
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, validate.CriterionFocalLoss, cfg.Train.Criterion)
	assert.Equal(t, validate.LossWeightDynamic, cfg.Train.LossWeight.Mode)
	assert.Equal(t, 2, cfg.Train.WarmupEpochs)
	require.NotNil(t, cfg.Train.SAMStartEpoch)
	assert.Equal(t, 4, *cfg.Train.SAMStartEpoch)
	assert.Equal(t, PlanSAM, cfg.Train.ActivePlan())

	require.NoError(t, Validate(cfg))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("TRAINCONF_EPOCHS", "30")
	t.Setenv("TRAINCONF_BATCH_SIZE", "64")
	t.Setenv("TRAINCONF_CRITERION", "kappa_loss")
	t.Setenv("TRAINCONF_METRICS", "acc, kappa")
	t.Setenv("TRAINCONF_INDICATOR", "kappa")
	t.Setenv("TRAINCONF_SWA_START_EPOCH", "none")
	t.Setenv("TRAINCONF_SAM_START_EPOCH", "10")

	loader := NewLoader(filepath.Join("testdata", "config.yaml"), "test")
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Train.Epochs)
	assert.Equal(t, 64, cfg.Train.BatchSize)
	assert.Equal(t, validate.CriterionKappaLoss, cfg.Train.Criterion)
	assert.Equal(t, []validate.Metric{validate.MetricAccuracy, validate.MetricKappa}, cfg.Train.Metrics)
	assert.Equal(t, validate.MetricKappa, cfg.Train.Indicator)
	// ENV cleared the file's SWA plan and enabled SAM instead.
	assert.Nil(t, cfg.Train.SWAStartEpoch)
	require.NotNil(t, cfg.Train.SAMStartEpoch)
	assert.Equal(t, 10, *cfg.Train.SAMStartEpoch)

	require.NoError(t, Validate(cfg))

	// Consumed-key tracking covers every key the loader touched.
	assert.Contains(t, loader.ConsumedEnvKeys, "TRAINCONF_EPOCHS")
	assert.Contains(t, loader.ConsumedEnvKeys, "TRAINCONF_SWA_START_EPOCH")
}

func TestLoad_EnvLossWeight(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want LossWeight
	}{
		{"balance", "balance", LossWeight{Mode: validate.LossWeightBalance}},
		{"dynamic", "dynamic", LossWeight{Mode: validate.LossWeightDynamic}},
		{"explicit list", "0.2, 0.8", LossWeight{Mode: validate.LossWeightFixed, Weights: []float64{0.2, 0.8}}},
		{"none", "none", LossWeight{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TRAINCONF_LOSS_WEIGHT", tt.env)
			loader := NewLoader("", "test")
			cfg, err := loader.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Train.LossWeight)
		})
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "train:\n  epochs: 10\n  learning_rate: 0.001\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	loader := NewLoader(path, "test")
	_, err := loader.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownConfigField), "expected ErrUnknownConfigField, got %v", err)
}

func TestLoad_TopLevelUnknownKeyRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "train:\n  epochs: 10\ndataset:\n  name: fundus\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	loader := NewLoader(path, "test")
	_, err := loader.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownConfigField))
}

func TestLoad_MultipleDocumentsRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "train:\n  epochs: 10\n---\ntrain:\n  epochs: 20\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	loader := NewLoader(path, "test")
	_, err := loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	loader := NewLoader(path, "test")
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Train.Epochs)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"train":{}}`), 0o600))

	loader := NewLoader(path, "test")
	_, err := loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoad_MissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"), "test")
	_, err := loader.Load()
	require.Error(t, err)
}

func TestLoad_TypeMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "train:\n  epochs: many\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	loader := NewLoader(path, "test")
	_, err := loader.Load()
	require.Error(t, err)
}

func TestLoad_InvalidEnvValueKeepsPrevious(t *testing.T) {
	t.Setenv("TRAINCONF_EPOCHS", "ten")
	t.Setenv("TRAINCONF_SAM_START_EPOCH", "four")

	loader := NewLoader(filepath.Join("testdata", "config.yaml"), "test")
	cfg, err := loader.Load()
	require.NoError(t, err)

	// Unparsable ENV values are logged and ignored; file values win.
	assert.Equal(t, 15, cfg.Train.Epochs)
	assert.Nil(t, cfg.Train.SAMStartEpoch)
}
