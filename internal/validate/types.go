// SPDX-License-Identifier: MIT
package validate

import "fmt"

// Criterion identifies the loss function used to optimize the model.
type Criterion string

const (
	CriterionCrossEntropy      Criterion = "cross_entropy"
	CriterionMeanSquareError   Criterion = "mean_square_error"
	CriterionMeanAbsoluteError Criterion = "mean_absolute_error"
	CriterionSmoothL1          Criterion = "smooth_L1"
	CriterionKappaLoss         Criterion = "kappa_loss"
	CriterionFocalLoss         Criterion = "focal_loss"
)

// Criteria returns the registry of supported loss functions.
func Criteria() []Criterion {
	return []Criterion{
		CriterionCrossEntropy,
		CriterionMeanSquareError,
		CriterionMeanAbsoluteError,
		CriterionSmoothL1,
		CriterionKappaLoss,
		CriterionFocalLoss,
	}
}

// IsValid checks if the criterion is a registered loss function
func (c Criterion) IsValid() bool {
	switch c {
	case CriterionCrossEntropy, CriterionMeanSquareError, CriterionMeanAbsoluteError,
		CriterionSmoothL1, CriterionKappaLoss, CriterionFocalLoss:
		return true
	default:
		return false
	}
}

// IsRegression reports whether the criterion optimizes a scalar regression
// target instead of class logits.
func (c Criterion) IsRegression() bool {
	switch c {
	case CriterionMeanSquareError, CriterionMeanAbsoluteError, CriterionSmoothL1:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (c Criterion) String() string {
	return string(c)
}

// ParseCriterion parses a string into a Criterion
func ParseCriterion(s string) (Criterion, error) {
	c := Criterion(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown criterion %q (must be one of %v)", s, Criteria())
	}
	return c, nil
}

// Metric identifies an evaluation metric computed per validation pass.
type Metric string

const (
	MetricAccuracy  Metric = "acc"
	MetricF1        Metric = "f1"
	MetricAUC       Metric = "auc"
	MetricPrecision Metric = "precision"
	MetricRecall    Metric = "recall"
	MetricKappa     Metric = "kappa"
)

// Metrics returns the registry of supported evaluation metrics.
func Metrics() []Metric {
	return []Metric{
		MetricAccuracy,
		MetricF1,
		MetricAUC,
		MetricPrecision,
		MetricRecall,
		MetricKappa,
	}
}

// IsValid checks if the metric is a registered evaluation metric
func (m Metric) IsValid() bool {
	switch m {
	case MetricAccuracy, MetricF1, MetricAUC, MetricPrecision, MetricRecall, MetricKappa:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (m Metric) String() string {
	return string(m)
}

// ParseMetric parses a string into a Metric
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown metric %q (must be one of %v)", s, Metrics())
	}
	return m, nil
}

// LossWeightMode selects the per-class loss weighting policy.
type LossWeightMode string

const (
	// LossWeightNone disables per-class loss weighting.
	LossWeightNone LossWeightMode = ""
	// LossWeightBalance uses inverse class-frequency weights for the whole run.
	LossWeightBalance LossWeightMode = "balance"
	// LossWeightDynamic decays from balanced weights toward uniform weights over training.
	LossWeightDynamic LossWeightMode = "dynamic"
	// LossWeightFixed uses an explicit per-class weight list.
	LossWeightFixed LossWeightMode = "fixed"
)

// IsValid checks if the loss weight mode is recognized
func (m LossWeightMode) IsValid() bool {
	switch m {
	case LossWeightNone, LossWeightBalance, LossWeightDynamic, LossWeightFixed:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (m LossWeightMode) String() string {
	if m == LossWeightNone {
		return "none"
	}
	return string(m)
}
