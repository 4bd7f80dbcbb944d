// Package algorithm models the published specification of a SageMaker algorithm and validates
// training configurations against it. The specification declares what the algorithm accepts:
// hyperparameters with types and ranges, supported instance types, data channels, and whether
// distributed training is available. Validation happens client-side, before any training job is
// submitted.
package algorithm

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/philpot/sagemaker-go-sdk/pkg/check"
	"github.com/philpot/sagemaker-go-sdk/pkg/set"
	"github.com/philpot/sagemaker-go-sdk/pkg/union"
)

// InputMode is the mechanism an algorithm container uses to consume channel data.
type InputMode string

// The input modes SageMaker supports.
const (
	// FileInputMode downloads channel data to the training container's local disk before the
	// algorithm starts.
	FileInputMode InputMode = "File"
	// PipeInputMode streams channel data to the algorithm through named pipes.
	PipeInputMode InputMode = "Pipe"
)

// ParseInputMode converts a wire-format input mode string into an InputMode.
func ParseInputMode(s string) (InputMode, error) {
	switch mode := InputMode(s); mode {
	case FileInputMode, PipeInputMode:
		return mode, nil
	default:
		return "", errors.Errorf("unknown input mode: %q", s)
	}
}

// Validate implements the check.Validatable interface.
func (m InputMode) Validate() []error {
	return []error{
		check.Contains(m, []interface{}{FileInputMode, PipeInputMode}, "invalid input mode"),
	}
}

// Spec is the declarative contract of an algorithm: the hyperparameters it accepts, the instance
// types it runs on, and the data channels it consumes. A Spec is parsed once, either from a
// DescribeAlgorithm response or from a local file, and is read-only afterwards.
type Spec struct {
	Name        string `json:"name"`
	ARN         string `json:"arn,omitempty"`
	Description string `json:"description,omitempty"`

	TrainingImage       string `json:"training_image,omitempty"`
	TrainingImageDigest string `json:"training_image_digest,omitempty"`

	Hyperparameters []HyperparameterSpec `json:"hyperparameters,omitempty"`
	InstanceTypes   []string             `json:"instance_types"`
	Channels        []ChannelSpec        `json:"channels,omitempty"`
	Metrics         []MetricDefinition   `json:"metrics,omitempty"`

	SupportsDistributedTraining bool `json:"supports_distributed_training,omitempty"`

	ProductID string         `json:"product_id,omitempty"`
	Inference *InferenceSpec `json:"inference,omitempty"`
}

// Validate implements the check.Validatable interface.
func (s Spec) Validate() []error {
	errs := []error{
		check.NotEmpty(s.Name, "algorithm name must be set"),
		check.True(len(s.InstanceTypes) > 0,
			"algorithm must declare at least one supported instance type"),
	}
	seen := set.New[string]()
	for _, hp := range s.Hyperparameters {
		if seen.Contains(hp.Name) {
			errs = append(errs, errors.Errorf("duplicate hyperparameter name: %s", hp.Name))
		}
		seen.Insert(hp.Name)
	}
	channels := set.New[string]()
	for _, c := range s.Channels {
		if channels.Contains(c.Name) {
			errs = append(errs, errors.Errorf("duplicate channel name: %s", c.Name))
		}
		channels.Insert(c.Name)
	}
	return errs
}

// Hyperparameter returns the declared hyperparameter with the given name, or nil when the
// algorithm does not declare it.
func (s *Spec) Hyperparameter(name string) *HyperparameterSpec {
	for i := range s.Hyperparameters {
		if s.Hyperparameters[i].Name == name {
			return &s.Hyperparameters[i]
		}
	}
	return nil
}

// Channel returns the declared channel with the given name, or nil when the algorithm does not
// declare it.
func (s *Spec) Channel(name string) *ChannelSpec {
	for i := range s.Channels {
		if s.Channels[i].Name == name {
			return &s.Channels[i]
		}
	}
	return nil
}

// NetworkIsolation reports whether jobs for this algorithm must run with network isolation
// enabled. Marketplace algorithms carry a product ID and always run isolated.
func (s *Spec) NetworkIsolation() bool {
	return s.ProductID != ""
}

// HyperparameterSpec declares a single hyperparameter. It is a union: exactly one of the typed
// members is set, selected by the "type" key in the serialized form.
type HyperparameterSpec struct {
	Integer     *IntegerHyperparameter     `union:"type,integer" json:"-"`
	Continuous  *ContinuousHyperparameter  `union:"type,continuous" json:"-"`
	Categorical *CategoricalHyperparameter `union:"type,categorical" json:"-"`
	FreeText    *FreeTextHyperparameter    `union:"type,free_text" json:"-"`

	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Tunable     bool    `json:"tunable,omitempty"`
	Default     *string `json:"default,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (h HyperparameterSpec) MarshalJSON() ([]byte, error) {
	return union.Marshal(h)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (h *HyperparameterSpec) UnmarshalJSON(data []byte) error {
	if err := union.Unmarshal(data, h); err != nil {
		return err
	}
	type DefaultParser *HyperparameterSpec
	return errors.Wrap(json.Unmarshal(data, DefaultParser(h)), "failed to parse hyperparameter")
}

// Validate implements the check.Validatable interface.
func (h HyperparameterSpec) Validate() []error {
	count := 0
	for _, member := range []bool{
		h.Integer != nil,
		h.Continuous != nil,
		h.Categorical != nil,
		h.FreeText != nil,
	} {
		if member {
			count++
		}
	}
	return []error{
		check.NotEmpty(h.Name, "hyperparameter name must be set"),
		check.Equal(count, 1, "exactly one hyperparameter type must be set"),
	}
}

// IntegerHyperparameter accepts integer-valued inputs, optionally bounded on either side.
type IntegerHyperparameter struct {
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`
}

// Validate implements the check.Validatable interface.
func (i IntegerHyperparameter) Validate() []error {
	return []error{
		check.LessThanOrEqualTo(i.Min, i.Max, "min must not exceed max"),
	}
}

// ContinuousHyperparameter accepts real-valued inputs, optionally bounded on either side.
type ContinuousHyperparameter struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Validate implements the check.Validatable interface.
func (c ContinuousHyperparameter) Validate() []error {
	return []error{
		check.LessThanOrEqualTo(c.Min, c.Max, "min must not exceed max"),
	}
}

// CategoricalHyperparameter accepts one of a fixed list of values. An empty list leaves the
// hyperparameter unconstrained; some algorithms publish categorical parameters without ranges.
type CategoricalHyperparameter struct {
	Values []string `json:"values,omitempty"`
}

// FreeTextHyperparameter accepts any value.
type FreeTextHyperparameter struct{}

// ChannelSpec declares a named data channel the algorithm reads during training.
type ChannelSpec struct {
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	Required         bool        `json:"required,omitempty"`
	InputModes       []InputMode `json:"input_modes"`
	ContentTypes     []string    `json:"content_types,omitempty"`
	CompressionTypes []string    `json:"compression_types,omitempty"`
}

// Validate implements the check.Validatable interface.
func (c ChannelSpec) Validate() []error {
	return []error{
		check.NotEmpty(c.Name, "channel name must be set"),
		check.True(len(c.InputModes) > 0, "channel must declare at least one input mode"),
	}
}

// SupportsInputMode reports whether the channel accepts the given input mode.
func (c *ChannelSpec) SupportsInputMode(mode InputMode) bool {
	for _, m := range c.InputModes {
		if m == mode {
			return true
		}
	}
	return false
}

// MetricDefinition names a training metric and the regular expression that extracts it from the
// algorithm's log output.
type MetricDefinition struct {
	Name  string `json:"name"`
	Regex string `json:"regex"`
}

// InferenceSpec declares how models produced by the algorithm are hosted for inference.
type InferenceSpec struct {
	Image                  string   `json:"image"`
	TransformInstanceTypes []string `json:"transform_instance_types,omitempty"`
	ContentTypes           []string `json:"content_types,omitempty"`
	ResponseMIMETypes      []string `json:"response_mime_types,omitempty"`
}
