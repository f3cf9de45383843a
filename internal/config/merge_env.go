// SPDX-License-Identifier: MIT

package config

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sidevit/trainconf/internal/log"
	"github.com/sidevit/trainconf/internal/validate"
)

// mergeEnvConfig overrides the resolved configuration from TRAINCONF_* keys.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	logger := log.WithComponent("config")

	cfg.LogLevel = l.envString("TRAINCONF_LOG_LEVEL", cfg.LogLevel)
	cfg.ListenAddr = l.envString("TRAINCONF_LISTEN", cfg.ListenAddr)
	cfg.NumClasses = l.envInt("TRAINCONF_NUM_CLASSES", cfg.NumClasses)
	cfg.WeightedSampling = l.envBool("TRAINCONF_WEIGHTED_SAMPLING", cfg.WeightedSampling)

	cfg.Train.Epochs = l.envInt("TRAINCONF_EPOCHS", cfg.Train.Epochs)
	cfg.Train.BatchSize = l.envInt("TRAINCONF_BATCH_SIZE", cfg.Train.BatchSize)
	cfg.Train.NumWorkers = l.envInt("TRAINCONF_NUM_WORKERS", cfg.Train.NumWorkers)
	cfg.Train.Criterion = validate.Criterion(l.envString("TRAINCONF_CRITERION", cfg.Train.Criterion.String()))
	cfg.Train.LossWeightDecayRate = l.envFloat("TRAINCONF_LOSS_WEIGHT_DECAY_RATE", cfg.Train.LossWeightDecayRate)
	cfg.Train.WarmupEpochs = l.envInt("TRAINCONF_WARMUP_EPOCHS", cfg.Train.WarmupEpochs)
	cfg.Train.SaveInterval = l.envInt("TRAINCONF_SAVE_INTERVAL", cfg.Train.SaveInterval)
	cfg.Train.EvalInterval = l.envInt("TRAINCONF_EVAL_INTERVAL", cfg.Train.EvalInterval)
	cfg.Train.SampleView = l.envBool("TRAINCONF_SAMPLE_VIEW", cfg.Train.SampleView)
	cfg.Train.PinMemory = l.envBool("TRAINCONF_PIN_MEMORY", cfg.Train.PinMemory)
	cfg.Train.EarlyStoppingPatience = l.envInt("TRAINCONF_EARLY_STOPPING_PATIENCE", cfg.Train.EarlyStoppingPatience)
	cfg.Train.LabelSmoothing = l.envFloat("TRAINCONF_LABEL_SMOOTHING", cfg.Train.LabelSmoothing)

	if raw, ok := l.envLookup("TRAINCONF_LOSS_WEIGHT"); ok {
		lw, err := ParseLossWeight(raw)
		if err != nil {
			logger.Warn().
				Str("key", "TRAINCONF_LOSS_WEIGHT").
				Str("value", raw).
				Err(err).
				Msg("invalid loss weight value, keeping previous")
		} else {
			cfg.Train.LossWeight = lw
		}
	}

	if raw, ok := l.envLookup("TRAINCONF_METRICS"); ok && strings.TrimSpace(raw) != "" {
		parts := splitCSV(raw)
		metrics := make([]validate.Metric, len(parts))
		for i, p := range parts {
			metrics[i] = validate.Metric(p)
		}
		cfg.Train.Metrics = metrics
	}
	if raw, ok := l.envLookup("TRAINCONF_INDICATOR"); ok && raw != "" {
		cfg.Train.Indicator = validate.Metric(raw)
	}

	cfg.Train.SWAStartEpoch = l.envEpochPtr(logger, "TRAINCONF_SWA_START_EPOCH", cfg.Train.SWAStartEpoch)
	cfg.Train.SAMStartEpoch = l.envEpochPtr(logger, "TRAINCONF_SAM_START_EPOCH", cfg.Train.SAMStartEpoch)
}

// envEpochPtr reads an optional plan start epoch. "none" (or an empty value)
// explicitly disables the plan, overriding a file-provided start epoch.
func (l *Loader) envEpochPtr(logger zerolog.Logger, key string, current *int) *int {
	raw, ok := l.envLookup(key)
	if !ok {
		return current
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "none" || raw == "null" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", raw).
			Msg("invalid epoch value, keeping previous")
		return current
	}
	return intPtr(v)
}

// splitCSV splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
