// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/sidevit/trainconf/internal/validate"
)

// validConfig returns a configuration that passes validation; tests mutate
// single fields to provoke specific violations.
func validConfig() AppConfig {
	swa := 8
	return AppConfig{
		LogLevel:   "info",
		ListenAddr: ":8080",
		Train: TrainConfig{
			Epochs:                15,
			BatchSize:             16,
			NumWorkers:            4,
			Criterion:             validate.CriterionCrossEntropy,
			LossWeightDecayRate:   0.0001,
			WarmupEpochs:          0,
			Metrics:               []validate.Metric{validate.MetricAccuracy, validate.MetricF1, validate.MetricAUC, validate.MetricPrecision, validate.MetricRecall, validate.MetricKappa},
			Indicator:             validate.MetricAccuracy,
			SaveInterval:          5,
			EvalInterval:          1,
			PinMemory:             true,
			EarlyStoppingPatience: 5,
			LabelSmoothing:        0.1,
			SWAStartEpoch:         &swa,
		},
	}
}

func TestValidate_ReferenceConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("reference config must validate, got %v", err)
	}
}

func TestValidate_FieldViolations(t *testing.T) {
	four := 4
	sixteen := 16
	negative := -1

	tests := []struct {
		name      string
		mutate    func(*AppConfig)
		wantField string
	}{
		{"zero epochs", func(c *AppConfig) { c.Train.Epochs = 0 }, "train.epochs"},
		{"negative epochs", func(c *AppConfig) { c.Train.Epochs = -3 }, "train.epochs"},
		{"zero batch size", func(c *AppConfig) { c.Train.BatchSize = 0 }, "train.batch_size"},
		{"negative workers", func(c *AppConfig) { c.Train.NumWorkers = -1 }, "train.num_workers"},
		{"unknown criterion", func(c *AppConfig) { c.Train.Criterion = "hinge_loss" }, "train.criterion"},
		{"unknown loss weight mode", func(c *AppConfig) { c.Train.LossWeight = LossWeight{Mode: "uniform"} }, "train.loss_weight"},
		{"empty fixed weights", func(c *AppConfig) { c.Train.LossWeight = LossWeight{Mode: validate.LossWeightFixed} }, "train.loss_weight"},
		{"non-positive weight", func(c *AppConfig) {
			c.Train.LossWeight = LossWeight{Mode: validate.LossWeightFixed, Weights: []float64{0.5, 0}}
		}, "train.loss_weight"},
		{"weight count vs classes", func(c *AppConfig) {
			c.NumClasses = 3
			c.Train.LossWeight = LossWeight{Mode: validate.LossWeightFixed, Weights: []float64{0.5, 0.5}}
		}, "train.loss_weight"},
		{"weights on balance mode", func(c *AppConfig) {
			c.Train.LossWeight = LossWeight{Mode: validate.LossWeightBalance, Weights: []float64{1}}
		}, "train.loss_weight"},
		{"loss weight with weighted sampling", func(c *AppConfig) {
			c.WeightedSampling = true
			c.Train.LossWeight = LossWeight{Mode: validate.LossWeightBalance}
		}, "train.loss_weight"},
		{"decay rate zero", func(c *AppConfig) { c.Train.LossWeightDecayRate = 0 }, "train.loss_weight_decay_rate"},
		{"decay rate one", func(c *AppConfig) { c.Train.LossWeightDecayRate = 1 }, "train.loss_weight_decay_rate"},
		{"warmup beyond epochs", func(c *AppConfig) { c.Train.WarmupEpochs = 16 }, "train.warmup_epochs"},
		{"negative warmup", func(c *AppConfig) { c.Train.WarmupEpochs = -1 }, "train.warmup_epochs"},
		{"no metrics", func(c *AppConfig) { c.Train.Metrics = nil }, "train.metrics"},
		{"unknown metric", func(c *AppConfig) {
			c.Train.Metrics = []validate.Metric{validate.MetricAccuracy, "mcc"}
		}, "train.metrics"},
		{"duplicate metric", func(c *AppConfig) {
			c.Train.Metrics = []validate.Metric{validate.MetricAccuracy, validate.MetricAccuracy}
		}, "train.metrics"},
		{"unknown indicator", func(c *AppConfig) { c.Train.Indicator = "accuracy" }, "train.indicator"},
		{"indicator not in metrics", func(c *AppConfig) {
			c.Train.Metrics = []validate.Metric{validate.MetricF1}
			c.Train.Indicator = validate.MetricAccuracy
		}, "train.indicator"},
		{"zero save interval", func(c *AppConfig) { c.Train.SaveInterval = 0 }, "train.save_interval"},
		{"zero eval interval", func(c *AppConfig) { c.Train.EvalInterval = 0 }, "train.eval_interval"},
		{"negative patience", func(c *AppConfig) { c.Train.EarlyStoppingPatience = -1 }, "train.early_stopping_patience"},
		{"label smoothing at one", func(c *AppConfig) { c.Train.LabelSmoothing = 1 }, "train.label_smoothing"},
		{"negative label smoothing", func(c *AppConfig) { c.Train.LabelSmoothing = -0.1 }, "train.label_smoothing"},
		{"swa beyond epochs", func(c *AppConfig) { c.Train.SWAStartEpoch = &sixteen }, "train.swa_start_epoch"},
		{"negative sam start", func(c *AppConfig) {
			c.Train.SWAStartEpoch = nil
			c.Train.SAMStartEpoch = &negative
		}, "train.sam_start_epoch"},
		{"both plans active", func(c *AppConfig) { c.Train.SAMStartEpoch = &four }, "train.sam_start_epoch"},
		{"bad log level", func(c *AppConfig) { c.LogLevel = "verbose" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			var verr validate.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			found := false
			for _, e := range verr.Errors() {
				if e.Field == tt.wantField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected a violation on %q, got: %v", tt.wantField, err)
			}
		})
	}
}

func TestValidate_AccumulatesAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Train.Epochs = 0
	cfg.Train.BatchSize = 0
	cfg.Train.Criterion = "nonsense"
	cfg.Train.Indicator = "mcc"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr validate.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	// epochs, warmup (warmup 0 > epochs 0 is fine), batch size, criterion,
	// indicator. At minimum the four directly broken fields must appear.
	if len(verr.Errors()) < 4 {
		t.Errorf("expected at least 4 violations, got %d: %v", len(verr.Errors()), err)
	}
	if !strings.Contains(err.Error(), "train.criterion") {
		t.Errorf("error should mention train.criterion: %v", err)
	}
}

func TestValidate_PlanEdgeValues(t *testing.T) {
	zero := 0
	fifteen := 15

	cfg := validConfig()
	cfg.Train.SWAStartEpoch = &zero
	if err := Validate(cfg); err != nil {
		t.Errorf("swa_start_epoch 0 must be valid (averaging from the first epoch): %v", err)
	}

	cfg = validConfig()
	cfg.Train.SWAStartEpoch = &fifteen
	if err := Validate(cfg); err != nil {
		t.Errorf("swa_start_epoch == epochs must be valid: %v", err)
	}

	cfg = validConfig()
	cfg.Train.SWAStartEpoch = nil
	if err := Validate(cfg); err != nil {
		t.Errorf("no plan at all must be valid: %v", err)
	}
	if got := cfg.Train.ActivePlan(); got != PlanNone {
		t.Errorf("ActivePlan() = %q, want %q", got, PlanNone)
	}
}
