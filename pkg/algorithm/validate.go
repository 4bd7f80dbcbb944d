package algorithm

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/philpot/sagemaker-go-sdk/pkg/set"
)

// ValidateInstanceType checks that the requested training instance type is one the algorithm
// supports.
func (s *Spec) ValidateInstanceType(instanceType string) error {
	for _, t := range s.InstanceTypes {
		if t == instanceType {
			return nil
		}
	}
	return AsInvalidConfig("instance type %s is not supported by algorithm %s (supported: %s)",
		instanceType, s.Name, strings.Join(s.InstanceTypes, ", "))
}

// ValidateInputMode checks that every channel the algorithm declares supports the requested
// input mode. All declared channels are checked, not just the ones later supplied with data: an
// algorithm declaring a Pipe-only channel rejects a File-mode configuration outright.
func (s *Spec) ValidateInputMode(mode InputMode) error {
	for i := range s.Channels {
		c := &s.Channels[i]
		if !c.SupportsInputMode(mode) {
			return AsInvalidConfig("channel %s does not support input mode %s (supported: %s)",
				c.Name, mode, joinInputModes(c.InputModes))
		}
	}
	return nil
}

// ValidateInstanceCount checks the requested cluster size against the algorithm's distributed
// training support. A single instance is always accepted.
func (s *Spec) ValidateInstanceCount(count int) error {
	if count < 1 {
		return AsInvalidConfig("instance count must be positive, got %d", count)
	}
	if count > 1 && !s.SupportsDistributedTraining {
		return AsInvalidConfig(
			"algorithm %s does not support distributed training, but %d instances were requested",
			s.Name, count)
	}
	return nil
}

// ValidateChannels checks supplied channel names against the declared channels in both
// directions: every required channel must be supplied, and every supplied name must be declared.
func (s *Spec) ValidateChannels(supplied []string) error {
	names := set.FromSlice(supplied)
	var missing []string
	for _, c := range s.Channels {
		if c.Required && !names.Contains(c.Name) {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		return AsInvalidConfig("missing required channel(s): %s", strings.Join(missing, ", "))
	}
	declared := set.New[string]()
	for _, c := range s.Channels {
		declared.Insert(c.Name)
	}
	if unknown := names.Difference(declared); len(unknown) > 0 {
		return AsInvalidConfig("unknown channel(s): %s",
			strings.Join(set.SortedSlice(unknown), ", "))
	}
	return nil
}

// ValidateRequiredHyperparameters checks that every required hyperparameter appears among the
// supplied names.
func (s *Spec) ValidateRequiredHyperparameters(supplied []string) error {
	names := set.FromSlice(supplied)
	var missing []string
	for _, hp := range s.Hyperparameters {
		if hp.Required && !names.Contains(hp.Name) {
			missing = append(missing, hp.Name)
		}
	}
	if len(missing) > 0 {
		return AsInvalidConfig("required hyperparameter(s) not set: %s",
			strings.Join(missing, ", "))
	}
	return nil
}

// ValidateConfig runs every check the specification imposes on a proposed training configuration
// and aggregates the violations, so the caller sees all problems at once rather than the first.
// Declared defaults count as supplied when the required set is checked.
func (s *Spec) ValidateConfig(cfg TrainingConfig) error {
	var merr *multierror.Error
	merr = multierror.Append(merr, s.ValidateInstanceType(cfg.InstanceType))
	merr = multierror.Append(merr, s.ValidateInputMode(cfg.InputMode))
	merr = multierror.Append(merr, s.ValidateInstanceCount(cfg.InstanceCount))

	supplied := set.FromKeys(cfg.Hyperparameters)
	for _, name := range set.SortedSlice(supplied) {
		hp := s.Hyperparameter(name)
		if hp == nil {
			merr = multierror.Append(merr, AsInvalidConfig(
				"hyperparameter %s is not supported by algorithm %s", name, s.Name))
			continue
		}
		if _, err := hp.CheckValue(cfg.Hyperparameters[name]); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	for _, hp := range s.Hyperparameters {
		if hp.Default != nil {
			supplied.Insert(hp.Name)
		}
	}
	merr = multierror.Append(merr, s.ValidateRequiredHyperparameters(supplied.ToSlice()))

	merr = multierror.Append(merr, s.ValidateChannels(set.SortedSlice(set.FromKeys(cfg.Channels))))
	return merr.ErrorOrNil()
}

// CheckValue validates a caller-supplied value against the hyperparameter's type and range and
// returns the canonical string form the platform expects. Values are submitted to the platform
// as strings regardless of their original type.
func (h *HyperparameterSpec) CheckValue(value interface{}) (string, error) {
	var canonical string
	var err error
	switch {
	case h.Integer != nil:
		canonical, err = h.Integer.CheckValue(value)
	case h.Continuous != nil:
		canonical, err = h.Continuous.CheckValue(value)
	case h.Categorical != nil:
		canonical, err = h.Categorical.CheckValue(value)
	case h.FreeText != nil:
		canonical, err = h.FreeText.CheckValue(value)
	default:
		err = errors.New("hyperparameter declares no type")
	}
	if err != nil {
		return "", errors.Wrapf(err, "hyperparameter %s", h.Name)
	}
	return canonical, nil
}

// CheckValue validates that the value is integer-valued and inside the declared range. Floats
// with a zero fractional part count as integers; any other float is rejected even when it falls
// numerically inside the range.
func (i IntegerHyperparameter) CheckValue(value interface{}) (string, error) {
	n, err := integerValue(value)
	if err != nil {
		return "", err
	}
	if i.Min != nil && n < *i.Min {
		return "", AsInvalidConfig("value %d is below the minimum of %d", n, *i.Min)
	}
	if i.Max != nil && n > *i.Max {
		return "", AsInvalidConfig("value %d is above the maximum of %d", n, *i.Max)
	}
	return strconv.FormatInt(n, 10), nil
}

// CheckValue validates that the value is numeric and inside the declared range.
func (c ContinuousHyperparameter) CheckValue(value interface{}) (string, error) {
	f, err := continuousValue(value)
	if err != nil {
		return "", err
	}
	if c.Min != nil && f < *c.Min {
		return "", AsInvalidConfig("value %v is below the minimum of %v", f, *c.Min)
	}
	if c.Max != nil && f > *c.Max {
		return "", AsInvalidConfig("value %v is above the maximum of %v", f, *c.Max)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// CheckValue validates that the stringified value matches one of the allowed values exactly.
// Matching is case-sensitive. A specification declaring no values accepts anything.
func (c CategoricalHyperparameter) CheckValue(value interface{}) (string, error) {
	s, err := stringValue(value)
	if err != nil {
		return "", err
	}
	if len(c.Values) == 0 {
		return s, nil
	}
	for _, allowed := range c.Values {
		if s == allowed {
			return s, nil
		}
	}
	return "", AsInvalidConfig("value %q is not one of the allowed values (%s)",
		s, strings.Join(c.Values, ", "))
}

// CheckValue accepts any stringifiable value; free-text hyperparameters carry no range.
func (f FreeTextHyperparameter) CheckValue(value interface{}) (string, error) {
	return stringValue(value)
}

func integerValue(value interface{}) (int64, error) {
	v := reflect.ValueOf(value)
	switch {
	case isIntKind(v):
		return v.Int(), nil
	case isUintKind(v):
		n := v.Uint()
		if n > math.MaxInt64 {
			return 0, AsInvalidConfig("value %d overflows the integer domain", n)
		}
		return int64(n), nil
	case isFloatKind(v):
		return integerFromFloat(v.Float())
	case v.Kind() == reflect.String:
		s := v.String()
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, AsInvalidConfig("value %q is not integer-valued", s)
		}
		return integerFromFloat(f)
	default:
		return 0, AsInvalidConfig("value of type %T cannot be used for an integer hyperparameter", value)
	}
}

func integerFromFloat(f float64) (int64, error) {
	if math.Trunc(f) != f || math.IsInf(f, 0) {
		return 0, AsInvalidConfig("value %v is not integer-valued", f)
	}
	if f >= float64(math.MaxInt64) || f < float64(math.MinInt64) {
		return 0, AsInvalidConfig("value %v overflows the integer domain", f)
	}
	return int64(f), nil
}

func continuousValue(value interface{}) (float64, error) {
	v := reflect.ValueOf(value)
	switch {
	case isIntKind(v):
		return float64(v.Int()), nil
	case isUintKind(v):
		return float64(v.Uint()), nil
	case isFloatKind(v):
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, AsInvalidConfig("value %v is not a finite number", f)
		}
		return f, nil
	case v.Kind() == reflect.String:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0, AsInvalidConfig("value %q is not a number", v.String())
		}
		return f, nil
	default:
		return 0, AsInvalidConfig("value of type %T cannot be used for a continuous hyperparameter", value)
	}
}

func stringValue(value interface{}) (string, error) {
	v := reflect.ValueOf(value)
	switch {
	case v.Kind() == reflect.String:
		return v.String(), nil
	case isIntKind(v):
		return strconv.FormatInt(v.Int(), 10), nil
	case isUintKind(v):
		return strconv.FormatUint(v.Uint(), 10), nil
	case isFloatKind(v):
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), nil
	case v.Kind() == reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	default:
		return "", AsInvalidConfig("value of type %T cannot be rendered as a string", value)
	}
}

func isIntKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUintKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isFloatKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func joinInputModes(modes []InputMode) string {
	strs := make([]string, 0, len(modes))
	for _, m := range modes {
		strs = append(strs, string(m))
	}
	return strings.Join(strs, ", ")
}
