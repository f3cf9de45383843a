// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sidevit/trainconf/internal/validate"
)

// TrainConfig is the resolved training-run record. It mirrors the key set of
// the "train" mapping in the configuration file one to one.
type TrainConfig struct {
	Epochs                int                `yaml:"epochs" json:"epochs"`
	BatchSize             int                `yaml:"batch_size" json:"batch_size"`
	NumWorkers            int                `yaml:"num_workers" json:"num_workers"`
	Criterion             validate.Criterion `yaml:"criterion" json:"criterion"`
	LossWeight            LossWeight         `yaml:"loss_weight" json:"loss_weight"`
	LossWeightDecayRate   float64            `yaml:"loss_weight_decay_rate" json:"loss_weight_decay_rate"`
	WarmupEpochs          int                `yaml:"warmup_epochs" json:"warmup_epochs"`
	Metrics               []validate.Metric  `yaml:"metrics" json:"metrics"`
	Indicator             validate.Metric    `yaml:"indicator" json:"indicator"`
	SaveInterval          int                `yaml:"save_interval" json:"save_interval"`
	EvalInterval          int                `yaml:"eval_interval" json:"eval_interval"`
	SampleView            bool               `yaml:"sample_view" json:"sample_view"`
	PinMemory             bool               `yaml:"pin_memory" json:"pin_memory"`
	EarlyStoppingPatience int                `yaml:"early_stopping_patience" json:"early_stopping_patience"`
	LabelSmoothing        float64            `yaml:"label_smoothing" json:"label_smoothing"`
	// Plan start epochs: nil disables the corresponding optimization plan.
	SWAStartEpoch *int `yaml:"swa_start_epoch" json:"swa_start_epoch"`
	SAMStartEpoch *int `yaml:"sam_start_epoch" json:"sam_start_epoch"`
}

// AppConfig is the runtime envelope: the train record plus environment-only
// operational settings that never appear in the configuration file.
type AppConfig struct {
	LogLevel         string      `json:"log_level"`
	ListenAddr       string      `json:"listen_addr"`
	NumClasses       int         `json:"num_classes"`
	WeightedSampling bool        `json:"weighted_sampling"`
	Train            TrainConfig `json:"train"`
}

// Plan identifies which optimization plan a configuration activates.
type Plan string

const (
	// PlanNone: neither weight averaging nor sharpness-aware minimization.
	PlanNone Plan = "none"
	// PlanSAM: sharpness-aware minimization from sam_start_epoch on ("plan A").
	PlanSAM Plan = "sam"
	// PlanSWA: stochastic weight averaging from swa_start_epoch on ("plan B").
	PlanSWA Plan = "swa"
)

// ActivePlan derives the optimization plan from the configured start epochs.
// Validation guarantees at most one of them is set.
func (c TrainConfig) ActivePlan() Plan {
	switch {
	case c.SAMStartEpoch != nil:
		return PlanSAM
	case c.SWAStartEpoch != nil:
		return PlanSWA
	default:
		return PlanNone
	}
}

// HasWarmup reports whether the run starts under learning-rate warmup.
func (c TrainConfig) HasWarmup() bool {
	return c.WarmupEpochs > 0
}

// LossWeight is the tri-state per-class loss weighting policy. In YAML it is
// either null, one of the mode strings "balance"/"dynamic", or an explicit
// per-class weight sequence.
type LossWeight struct {
	Mode    validate.LossWeightMode `json:"mode"`
	Weights []float64               `json:"weights,omitempty"`
}

// IsSet reports whether any weighting policy is configured.
func (w LossWeight) IsSet() bool {
	return w.Mode != validate.LossWeightNone
}

// UnmarshalYAML decodes the three supported YAML shapes.
func (w *LossWeight) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*w = LossWeight{}
			return nil
		}
		mode := validate.LossWeightMode(value.Value)
		if mode != validate.LossWeightBalance && mode != validate.LossWeightDynamic {
			return fmt.Errorf("loss_weight: unknown mode %q (must be null, %q, %q or a weight list)",
				value.Value, validate.LossWeightBalance, validate.LossWeightDynamic)
		}
		*w = LossWeight{Mode: mode}
		return nil
	case yaml.SequenceNode:
		var weights []float64
		if err := value.Decode(&weights); err != nil {
			return fmt.Errorf("loss_weight: %w", err)
		}
		*w = LossWeight{Mode: validate.LossWeightFixed, Weights: weights}
		return nil
	default:
		return fmt.Errorf("loss_weight: unsupported YAML node kind %d", value.Kind)
	}
}

// MarshalYAML encodes the policy back to the same YAML shape it was read from.
func (w LossWeight) MarshalYAML() (interface{}, error) {
	switch w.Mode {
	case validate.LossWeightNone:
		return nil, nil
	case validate.LossWeightFixed:
		return w.Weights, nil
	default:
		return string(w.Mode), nil
	}
}

// String renders the policy for logs and CLI output.
func (w LossWeight) String() string {
	if w.Mode != validate.LossWeightFixed {
		return w.Mode.String()
	}
	parts := make([]string, len(w.Weights))
	for i, f := range w.Weights {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// ParseLossWeight parses the ENV string form of a loss weighting policy.
// Supported forms: "" / "none" / "null", "balance", "dynamic", and a
// comma-separated float list ("0.2,0.8").
func ParseLossWeight(raw string) (LossWeight, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "none", "null":
		return LossWeight{}, nil
	case string(validate.LossWeightBalance):
		return LossWeight{Mode: validate.LossWeightBalance}, nil
	case string(validate.LossWeightDynamic):
		return LossWeight{Mode: validate.LossWeightDynamic}, nil
	}

	parts := strings.Split(raw, ",")
	weights := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return LossWeight{}, fmt.Errorf("invalid loss weight %q: %w", p, err)
		}
		weights = append(weights, f)
	}
	if len(weights) == 0 {
		return LossWeight{}, fmt.Errorf("invalid loss weight value %q", raw)
	}
	return LossWeight{Mode: validate.LossWeightFixed, Weights: weights}, nil
}

// FileConfig is the YAML-facing form of the configuration file. Pointer
// fields distinguish "key absent" from an explicit zero value during merge.
type FileConfig struct {
	Train TrainFileConfig `yaml:"train"`
}

// TrainFileConfig mirrors TrainConfig with optional fields.
type TrainFileConfig struct {
	Epochs                *int        `yaml:"epochs"`
	BatchSize             *int        `yaml:"batch_size"`
	NumWorkers            *int        `yaml:"num_workers"`
	Criterion             *string     `yaml:"criterion"`
	LossWeight            *LossWeight `yaml:"loss_weight"`
	LossWeightDecayRate   *float64    `yaml:"loss_weight_decay_rate"`
	WarmupEpochs          *int        `yaml:"warmup_epochs"`
	Metrics               []string    `yaml:"metrics"`
	Indicator             *string     `yaml:"indicator"`
	SaveInterval          *int        `yaml:"save_interval"`
	EvalInterval          *int        `yaml:"eval_interval"`
	SampleView            *bool       `yaml:"sample_view"`
	PinMemory             *bool       `yaml:"pin_memory"`
	EarlyStoppingPatience *int        `yaml:"early_stopping_patience"`
	LabelSmoothing        *float64    `yaml:"label_smoothing"`
	SWAStartEpoch         *int        `yaml:"swa_start_epoch"`
	SAMStartEpoch         *int        `yaml:"sam_start_epoch"`
}

// fileDocument is the serialization form used when persisting a resolved
// configuration: all train keys are written, including explicit nulls, so a
// Save/Load round trip is the identity.
type fileDocument struct {
	Train TrainConfig `yaml:"train"`
}
