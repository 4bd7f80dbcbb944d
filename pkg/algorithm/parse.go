package algorithm

import (
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/philpot/sagemaker-go-sdk/pkg/check"
	"github.com/philpot/sagemaker-go-sdk/pkg/ptrs"
)

// The hyperparameter types a DescribeAlgorithm response may declare.
const (
	wireTypeInteger     = "Integer"
	wireTypeContinuous  = "Continuous"
	wireTypeCategorical = "Categorical"
	wireTypeFreeText    = "FreeText"
)

// FromDescribeOutput converts a DescribeAlgorithm response into a Spec. Malformed metadata, such
// as unparseable range bounds or an unknown hyperparameter type, fails loudly here rather than
// during a later validation. The caller is expected to run check.Validate on the result.
func FromDescribeOutput(out *sagemaker.DescribeAlgorithmOutput) (*Spec, error) {
	if out == nil || out.TrainingSpecification == nil {
		return nil, errors.New("describe response carries no training specification")
	}
	ts := out.TrainingSpecification
	spec := &Spec{
		Name:                aws.StringValue(out.AlgorithmName),
		ARN:                 aws.StringValue(out.AlgorithmArn),
		Description:         aws.StringValue(out.AlgorithmDescription),
		TrainingImage:       aws.StringValue(ts.TrainingImage),
		TrainingImageDigest: aws.StringValue(ts.TrainingImageDigest),
		InstanceTypes:       aws.StringValueSlice(ts.SupportedTrainingInstanceTypes),

		SupportsDistributedTraining: aws.BoolValue(ts.SupportsDistributedTraining),

		ProductID: aws.StringValue(out.ProductId),
	}
	for _, wire := range ts.SupportedHyperParameters {
		hp, err := parseHyperparameter(wire)
		if err != nil {
			return nil, err
		}
		spec.Hyperparameters = append(spec.Hyperparameters, *hp)
	}
	for _, wire := range ts.TrainingChannels {
		channel, err := parseChannel(wire)
		if err != nil {
			return nil, err
		}
		spec.Channels = append(spec.Channels, *channel)
	}
	for _, wire := range ts.MetricDefinitions {
		spec.Metrics = append(spec.Metrics, MetricDefinition{
			Name:  aws.StringValue(wire.Name),
			Regex: aws.StringValue(wire.Regex),
		})
	}
	if out.InferenceSpecification != nil {
		spec.Inference = parseInference(out.InferenceSpecification)
	}
	return spec, nil
}

func parseHyperparameter(wire *sagemaker.HyperParameterSpecification) (*HyperparameterSpec, error) {
	hp := &HyperparameterSpec{
		Name:        aws.StringValue(wire.Name),
		Description: aws.StringValue(wire.Description),
		Required:    aws.BoolValue(wire.IsRequired),
		Tunable:     aws.BoolValue(wire.IsTunable),
	}
	if wire.DefaultValue != nil {
		hp.Default = ptrs.Ptr(*wire.DefaultValue)
	}
	switch typ := aws.StringValue(wire.Type); typ {
	case wireTypeInteger:
		member := &IntegerHyperparameter{}
		if wire.Range != nil {
			r := wire.Range.IntegerParameterRangeSpecification
			if r == nil {
				return nil, errors.Errorf(
					"hyperparameter %s declares type Integer but carries no integer range", hp.Name)
			}
			var err error
			if member.Min, err = parseIntegerBound(r.MinValue); err != nil {
				return nil, errors.Wrapf(err, "hyperparameter %s", hp.Name)
			}
			if member.Max, err = parseIntegerBound(r.MaxValue); err != nil {
				return nil, errors.Wrapf(err, "hyperparameter %s", hp.Name)
			}
		}
		hp.Integer = member
	case wireTypeContinuous:
		member := &ContinuousHyperparameter{}
		if wire.Range != nil {
			r := wire.Range.ContinuousParameterRangeSpecification
			if r == nil {
				return nil, errors.Errorf(
					"hyperparameter %s declares type Continuous but carries no continuous range", hp.Name)
			}
			var err error
			if member.Min, err = parseContinuousBound(r.MinValue); err != nil {
				return nil, errors.Wrapf(err, "hyperparameter %s", hp.Name)
			}
			if member.Max, err = parseContinuousBound(r.MaxValue); err != nil {
				return nil, errors.Wrapf(err, "hyperparameter %s", hp.Name)
			}
		}
		hp.Continuous = member
	case wireTypeCategorical:
		member := &CategoricalHyperparameter{}
		if wire.Range != nil {
			r := wire.Range.CategoricalParameterRangeSpecification
			if r == nil {
				return nil, errors.Errorf(
					"hyperparameter %s declares type Categorical but carries no categorical range", hp.Name)
			}
			member.Values = aws.StringValueSlice(r.Values)
		}
		hp.Categorical = member
	case wireTypeFreeText:
		hp.FreeText = &FreeTextHyperparameter{}
	default:
		return nil, errors.Errorf("hyperparameter %s has unknown type %q", hp.Name, typ)
	}
	return hp, nil
}

// parseIntegerBound parses a wire range bound. Bounds come over the wire as strings; a missing
// or empty bound leaves that side unconstrained.
func parseIntegerBound(bound *string) (*int64, error) {
	s := aws.StringValue(bound)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse integer range bound %q", s)
	}
	return ptrs.Ptr(n), nil
}

func parseContinuousBound(bound *string) (*float64, error) {
	s := aws.StringValue(bound)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse continuous range bound %q", s)
	}
	return ptrs.Ptr(f), nil
}

func parseChannel(wire *sagemaker.ChannelSpecification) (*ChannelSpec, error) {
	channel := &ChannelSpec{
		Name:             aws.StringValue(wire.Name),
		Description:      aws.StringValue(wire.Description),
		Required:         aws.BoolValue(wire.IsRequired),
		ContentTypes:     aws.StringValueSlice(wire.SupportedContentTypes),
		CompressionTypes: aws.StringValueSlice(wire.SupportedCompressionTypes),
	}
	for _, s := range aws.StringValueSlice(wire.SupportedInputModes) {
		mode, err := ParseInputMode(s)
		if err != nil {
			return nil, errors.Wrapf(err, "channel %s", channel.Name)
		}
		channel.InputModes = append(channel.InputModes, mode)
	}
	return channel, nil
}

func parseInference(wire *sagemaker.InferenceSpecification) *InferenceSpec {
	inference := &InferenceSpec{
		TransformInstanceTypes: aws.StringValueSlice(wire.SupportedTransformInstanceTypes),
		ContentTypes:           aws.StringValueSlice(wire.SupportedContentTypes),
		ResponseMIMETypes:      aws.StringValueSlice(wire.SupportedResponseMIMETypes),
	}
	if len(wire.Containers) > 0 {
		inference.Image = aws.StringValue(wire.Containers[0].Image)
	}
	return inference
}

// ParseSpec parses a YAML or JSON specification document and checks it for well-formedness.
// Unknown fields are rejected.
func ParseSpec(data []byte) (*Spec, error) {
	spec := &Spec{}
	if err := yaml.Unmarshal(data, spec, yaml.DisallowUnknownFields); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal algorithm specification")
	}
	if err := check.Validate(*spec); err != nil {
		return nil, err
	}
	return spec, nil
}

// ParseSpecFile reads an algorithm specification from a local YAML or JSON file. It serves
// offline validation, where no DescribeAlgorithm call is possible or wanted.
func ParseSpecFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "error reading algorithm specification file")
	}
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing algorithm specification file %s", path)
	}
	return spec, nil
}
