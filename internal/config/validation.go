// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"math"

	"github.com/sidevit/trainconf/internal/validate"
)

// Validate validates a resolved AppConfig using the centralized validation
// package. All violations are accumulated so that a single run reports every
// problem in the file.
func Validate(cfg AppConfig) error {
	v := validate.New()

	t := cfg.Train

	v.Positive("train.epochs", t.Epochs)
	v.Positive("train.batch_size", t.BatchSize)
	v.Min("train.num_workers", t.NumWorkers, 0)

	if !t.Criterion.IsValid() {
		v.AddError("train.criterion",
			fmt.Sprintf("unknown criterion (must be one of %v)", validate.Criteria()),
			t.Criterion.String())
	}

	validateLossWeight(v, cfg)

	v.FloatOpenRange("train.loss_weight_decay_rate", t.LossWeightDecayRate, 0, 1)

	v.Min("train.warmup_epochs", t.WarmupEpochs, 0)
	if t.WarmupEpochs > t.Epochs {
		v.AddError("train.warmup_epochs",
			fmt.Sprintf("must not exceed train.epochs (%d)", t.Epochs),
			t.WarmupEpochs)
	}

	validateMetrics(v, t)

	v.Positive("train.save_interval", t.SaveInterval)
	v.Positive("train.eval_interval", t.EvalInterval)

	v.Min("train.early_stopping_patience", t.EarlyStoppingPatience, 0)
	v.FloatHalfOpenRange("train.label_smoothing", t.LabelSmoothing, 0, 1)

	validatePlans(v, t)

	if !validLogLevel(cfg.LogLevel) {
		v.AddError("log_level", "invalid log level (must be: debug, info, warn, error)", cfg.LogLevel)
	}
	v.Min("num_classes", cfg.NumClasses, 0)

	return v.Err()
}

func validateLossWeight(v *validate.Validator, cfg AppConfig) {
	w := cfg.Train.LossWeight

	if !w.Mode.IsValid() {
		v.AddError("train.loss_weight", "unknown loss weight mode", w.Mode.String())
		return
	}

	// Per-class loss weighting and weighted sampling correct for class
	// imbalance twice; the harness accepts at most one of them.
	if w.IsSet() && cfg.WeightedSampling {
		v.AddError("train.loss_weight",
			"must not be set while weighted sampling is enabled", w.String())
	}

	switch w.Mode {
	case validate.LossWeightFixed:
		if len(w.Weights) == 0 {
			v.AddError("train.loss_weight", "weight list must not be empty", w.String())
		}
		for i, f := range w.Weights {
			if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
				v.AddError("train.loss_weight",
					fmt.Sprintf("weight %d must be a finite positive number, got %g", i, f), f)
			}
		}
		if cfg.NumClasses > 0 && len(w.Weights) != cfg.NumClasses {
			v.AddError("train.loss_weight",
				fmt.Sprintf("weight list length %d must equal number of classes %d",
					len(w.Weights), cfg.NumClasses),
				w.String())
		}
	default:
		if len(w.Weights) != 0 {
			v.AddError("train.loss_weight",
				fmt.Sprintf("mode %q does not take an explicit weight list", w.Mode), w.String())
		}
	}
}

func validateMetrics(v *validate.Validator, t TrainConfig) {
	if len(t.Metrics) == 0 {
		v.AddError("train.metrics", "at least one metric is required", "")
	}
	seen := make(map[validate.Metric]struct{}, len(t.Metrics))
	for _, m := range t.Metrics {
		if !m.IsValid() {
			v.AddError("train.metrics",
				fmt.Sprintf("unknown metric (must be drawn from %v)", validate.Metrics()),
				m.String())
			continue
		}
		if _, dup := seen[m]; dup {
			v.AddError("train.metrics", "duplicate metric", m.String())
			continue
		}
		seen[m] = struct{}{}
	}

	if !t.Indicator.IsValid() {
		v.AddError("train.indicator",
			fmt.Sprintf("unknown metric (must be drawn from %v)", validate.Metrics()),
			t.Indicator.String())
		return
	}
	if _, ok := seen[t.Indicator]; !ok {
		v.AddError("train.indicator", "must be listed in train.metrics", t.Indicator.String())
	}
}

func validatePlans(v *validate.Validator, t TrainConfig) {
	if t.SWAStartEpoch != nil {
		v.Range("train.swa_start_epoch", *t.SWAStartEpoch, 0, t.Epochs)
	}
	if t.SAMStartEpoch != nil {
		v.Range("train.sam_start_epoch", *t.SAMStartEpoch, 0, t.Epochs)
	}
	// The two optimization plans replace the optimizer step in incompatible
	// ways; a run activates at most one of them.
	if t.SWAStartEpoch != nil && t.SAMStartEpoch != nil {
		v.AddError("train.sam_start_epoch",
			"mutually exclusive with train.swa_start_epoch (pick one optimization plan)",
			*t.SAMStartEpoch)
	}
}

func validLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
