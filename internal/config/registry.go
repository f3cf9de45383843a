// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/sidevit/trainconf/internal/validate"
)

// Profile defines the operator persona for a configuration option.
type Profile string

const (
	ProfileSimple   Profile = "Simple"
	ProfileAdvanced Profile = "Advanced"
	ProfileInternal Profile = "Internal"
)

// Status defines the lifecycle state of a configuration option.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInternal Status = "Internal"
)

// ConfigEntry defines a single configuration option's metadata.
type ConfigEntry struct {
	Path          string  // User-facing file path (e.g. "train.epochs"); empty for ENV-only options
	Env           string  // Environment variable (e.g. "TRAINCONF_EPOCHS")
	FieldPath     string  // Internal field path (e.g. "Train.Epochs")
	Profile       Profile // Operator profile
	Status        Status  // Lifecycle status
	Default       any     // Default value; nil means unset
	HotReloadable bool    // Safe to change on a running harness
	Doc           string  // One-line description for generated docs
}

// Registry manages the configuration surface inventory.
type Registry struct {
	ByPath  map[string]ConfigEntry
	ByField map[string]ConfigEntry
	ByEnv   map[string]ConfigEntry
	Entries []ConfigEntry // declaration order
}

var (
	globalRegistry    *Registry
	globalRegistryErr error
	registryOnce      sync.Once
)

// GetRegistry returns the global configuration registry.
// It returns an error if the registry contains duplicates or is otherwise invalid.
// Thread-safe via sync.Once.
func GetRegistry() (*Registry, error) {
	registryOnce.Do(func() {
		globalRegistry, globalRegistryErr = buildRegistry()
	})
	return globalRegistry, globalRegistryErr
}

const envPrefix = "TRAINCONF_"

func buildRegistry() (*Registry, error) {
	r := &Registry{
		ByPath:  make(map[string]ConfigEntry),
		ByField: make(map[string]ConfigEntry),
		ByEnv:   make(map[string]ConfigEntry),
	}

	entries := []ConfigEntry{
		// --- OPERATIONAL (ENV only, never in the file) ---
		{Env: "TRAINCONF_LOG_LEVEL", FieldPath: "LogLevel", Profile: ProfileSimple, Status: StatusActive, Default: "info", HotReloadable: true,
			Doc: "log level (debug, info, warn, error)"},
		{Env: "TRAINCONF_LISTEN", FieldPath: "ListenAddr", Profile: ProfileAdvanced, Status: StatusActive, Default: ":8080",
			Doc: "admin API listen address"},
		{Env: "TRAINCONF_NUM_CLASSES", FieldPath: "NumClasses", Profile: ProfileAdvanced, Status: StatusActive, Default: 0,
			Doc: "dataset class count; enables loss_weight list length checks when > 0"},
		{Env: "TRAINCONF_WEIGHTED_SAMPLING", FieldPath: "WeightedSampling", Profile: ProfileAdvanced, Status: StatusActive, Default: false,
			Doc: "set when the data loader uses weighted sampling; conflicts with loss_weight"},

		// --- TRAIN ---
		{Path: "train.epochs", Env: "TRAINCONF_EPOCHS", FieldPath: "Train.Epochs", Profile: ProfileSimple, Status: StatusActive, Default: 15,
			Doc: "total training passes over the dataset"},
		{Path: "train.batch_size", Env: "TRAINCONF_BATCH_SIZE", FieldPath: "Train.BatchSize", Profile: ProfileSimple, Status: StatusActive, Default: 16,
			Doc: "samples per optimization step"},
		{Path: "train.num_workers", Env: "TRAINCONF_NUM_WORKERS", FieldPath: "Train.NumWorkers", Profile: ProfileSimple, Status: StatusActive, Default: 4,
			Doc: "parallel data-loading workers"},
		{Path: "train.criterion", Env: "TRAINCONF_CRITERION", FieldPath: "Train.Criterion", Profile: ProfileSimple, Status: StatusActive, Default: validate.CriterionCrossEntropy,
			Doc: "loss function used to optimize the model"},
		{Path: "train.loss_weight", Env: "TRAINCONF_LOSS_WEIGHT", FieldPath: "Train.LossWeight", Profile: ProfileAdvanced, Status: StatusActive,
			Doc: "per-class loss weighting: null, balance, dynamic, or an explicit weight list"},
		{Path: "train.loss_weight_decay_rate", Env: "TRAINCONF_LOSS_WEIGHT_DECAY_RATE", FieldPath: "Train.LossWeightDecayRate", Profile: ProfileAdvanced, Status: StatusActive, Default: 0.0001,
			Doc: "decay rate interpolating dynamic weights from balanced toward uniform"},
		{Path: "train.warmup_epochs", Env: "TRAINCONF_WARMUP_EPOCHS", FieldPath: "Train.WarmupEpochs", Profile: ProfileAdvanced, Status: StatusActive, Default: 0,
			Doc: "initial epochs under learning-rate warmup; 0 disables warmup"},
		{Path: "train.metrics", Env: "TRAINCONF_METRICS", FieldPath: "Train.Metrics", Profile: ProfileSimple, Status: StatusActive, Default: []validate.Metric{validate.MetricAccuracy},
			Doc: "evaluation metrics computed per validation pass"},
		{Path: "train.indicator", Env: "TRAINCONF_INDICATOR", FieldPath: "Train.Indicator", Profile: ProfileSimple, Status: StatusActive, Default: validate.MetricAccuracy,
			Doc: "metric used to rank checkpoints for best-model selection; must be listed in metrics"},
		{Path: "train.save_interval", Env: "TRAINCONF_SAVE_INTERVAL", FieldPath: "Train.SaveInterval", Profile: ProfileSimple, Status: StatusActive, Default: 5, HotReloadable: true,
			Doc: "epoch stride for persisting checkpoints"},
		{Path: "train.eval_interval", Env: "TRAINCONF_EVAL_INTERVAL", FieldPath: "Train.EvalInterval", Profile: ProfileSimple, Status: StatusActive, Default: 1, HotReloadable: true,
			Doc: "epoch stride for running validation"},
		{Path: "train.sample_view", Env: "TRAINCONF_SAMPLE_VIEW", FieldPath: "Train.SampleView", Profile: ProfileAdvanced, Status: StatusActive, Default: false, HotReloadable: true,
			Doc: "toggles sample visualization side effects"},
		{Path: "train.pin_memory", Env: "TRAINCONF_PIN_MEMORY", FieldPath: "Train.PinMemory", Profile: ProfileAdvanced, Status: StatusActive, Default: true,
			Doc: "toggles the pinned host memory data-transfer hint"},
		{Path: "train.early_stopping_patience", Env: "TRAINCONF_EARLY_STOPPING_PATIENCE", FieldPath: "Train.EarlyStoppingPatience", Profile: ProfileAdvanced, Status: StatusActive, Default: 5,
			Doc: "epochs without indicator improvement before stopping"},
		{Path: "train.label_smoothing", Env: "TRAINCONF_LABEL_SMOOTHING", FieldPath: "Train.LabelSmoothing", Profile: ProfileAdvanced, Status: StatusActive, Default: 0.0,
			Doc: "label smoothing factor in [0, 1)"},
		{Path: "train.swa_start_epoch", Env: "TRAINCONF_SWA_START_EPOCH", FieldPath: "Train.SWAStartEpoch", Profile: ProfileAdvanced, Status: StatusActive,
			Doc: "epoch at which stochastic weight averaging begins; unset disables SWA"},
		{Path: "train.sam_start_epoch", Env: "TRAINCONF_SAM_START_EPOCH", FieldPath: "Train.SAMStartEpoch", Profile: ProfileAdvanced, Status: StatusActive,
			Doc: "epoch at which sharpness-aware minimization begins; unset disables SAM"},
	}

	appType := reflect.TypeOf(AppConfig{})
	for _, entry := range entries {
		if entry.FieldPath == "" {
			return nil, fmt.Errorf("registry entry %q has no field path", entry.Path)
		}
		if _, err := resolveFieldPath(appType, entry.FieldPath); err != nil {
			return nil, fmt.Errorf("registry entry %q: %w", entry.FieldPath, err)
		}
		if entry.Path != "" {
			if _, dup := r.ByPath[entry.Path]; dup {
				return nil, fmt.Errorf("duplicate registry path %q", entry.Path)
			}
			r.ByPath[entry.Path] = entry
		}
		if _, dup := r.ByField[entry.FieldPath]; dup {
			return nil, fmt.Errorf("duplicate registry field path %q", entry.FieldPath)
		}
		r.ByField[entry.FieldPath] = entry
		if entry.Env != "" {
			if !strings.HasPrefix(entry.Env, envPrefix) {
				return nil, fmt.Errorf("registry env %q lacks %q prefix", entry.Env, envPrefix)
			}
			if _, dup := r.ByEnv[entry.Env]; dup {
				return nil, fmt.Errorf("duplicate registry env %q", entry.Env)
			}
			r.ByEnv[entry.Env] = entry
		}
		r.Entries = append(r.Entries, entry)
	}

	return r, nil
}

// resolveFieldPath walks a dotted field path through nested struct types.
func resolveFieldPath(t reflect.Type, fieldPath string) (reflect.StructField, error) {
	var field reflect.StructField
	for _, part := range strings.Split(fieldPath, ".") {
		if t.Kind() != reflect.Struct {
			return field, fmt.Errorf("field path %q traverses non-struct type %s", fieldPath, t)
		}
		f, ok := t.FieldByName(part)
		if !ok {
			return field, fmt.Errorf("field path %q: no field %q on %s", fieldPath, part, t)
		}
		field = f
		t = f.Type
	}
	return field, nil
}
