// SPDX-License-Identifier: MIT

package config

import "github.com/sidevit/trainconf/internal/validate"

// mergeFileConfig merges file configuration into the resolved AppConfig.
// Enum-typed values are carried over verbatim; Validate rejects unknown
// members so that the error names the offending field instead of failing
// mid-merge.
func (l *Loader) mergeFileConfig(dst *AppConfig, src *FileConfig) {
	t := src.Train

	if t.Epochs != nil {
		dst.Train.Epochs = *t.Epochs
	}
	if t.BatchSize != nil {
		dst.Train.BatchSize = *t.BatchSize
	}
	if t.NumWorkers != nil {
		dst.Train.NumWorkers = *t.NumWorkers
	}
	if t.Criterion != nil {
		dst.Train.Criterion = validate.Criterion(*t.Criterion)
	}
	if t.LossWeight != nil {
		dst.Train.LossWeight = cloneLossWeight(*t.LossWeight)
	}
	if t.LossWeightDecayRate != nil {
		dst.Train.LossWeightDecayRate = *t.LossWeightDecayRate
	}
	if t.WarmupEpochs != nil {
		dst.Train.WarmupEpochs = *t.WarmupEpochs
	}
	if t.Metrics != nil {
		metrics := make([]validate.Metric, len(t.Metrics))
		for i, m := range t.Metrics {
			metrics[i] = validate.Metric(m)
		}
		dst.Train.Metrics = metrics
	}
	if t.Indicator != nil {
		dst.Train.Indicator = validate.Metric(*t.Indicator)
	}
	if t.SaveInterval != nil {
		dst.Train.SaveInterval = *t.SaveInterval
	}
	if t.EvalInterval != nil {
		dst.Train.EvalInterval = *t.EvalInterval
	}
	if t.SampleView != nil {
		dst.Train.SampleView = *t.SampleView
	}
	if t.PinMemory != nil {
		dst.Train.PinMemory = *t.PinMemory
	}
	if t.EarlyStoppingPatience != nil {
		dst.Train.EarlyStoppingPatience = *t.EarlyStoppingPatience
	}
	if t.LabelSmoothing != nil {
		dst.Train.LabelSmoothing = *t.LabelSmoothing
	}
	if t.SWAStartEpoch != nil {
		dst.Train.SWAStartEpoch = intPtr(*t.SWAStartEpoch)
	}
	if t.SAMStartEpoch != nil {
		dst.Train.SAMStartEpoch = intPtr(*t.SAMStartEpoch)
	}
}

func cloneLossWeight(w LossWeight) LossWeight {
	if len(w.Weights) == 0 {
		return LossWeight{Mode: w.Mode}
	}
	weights := make([]float64, len(w.Weights))
	copy(weights, w.Weights)
	return LossWeight{Mode: w.Mode, Weights: weights}
}

func intPtr(v int) *int {
	return &v
}
