package mocks

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sagemaker"
)

// DescribeAlgorithmOption mutates a canned DescribeAlgorithm response.
type DescribeAlgorithmOption func(*sagemaker.DescribeAlgorithmOutput)

// WithHyperparameters replaces the declared hyperparameters.
func WithHyperparameters(hps ...*sagemaker.HyperParameterSpecification) DescribeAlgorithmOption {
	return func(out *sagemaker.DescribeAlgorithmOutput) {
		out.TrainingSpecification.SupportedHyperParameters = hps
	}
}

// WithChannels replaces the declared training channels.
func WithChannels(channels ...*sagemaker.ChannelSpecification) DescribeAlgorithmOption {
	return func(out *sagemaker.DescribeAlgorithmOutput) {
		out.TrainingSpecification.TrainingChannels = channels
	}
}

// WithInstanceTypes replaces the supported training instance types.
func WithInstanceTypes(types ...string) DescribeAlgorithmOption {
	return func(out *sagemaker.DescribeAlgorithmOutput) {
		out.TrainingSpecification.SupportedTrainingInstanceTypes = aws.StringSlice(types)
	}
}

// WithDistributedTraining toggles distributed training support.
func WithDistributedTraining(supported bool) DescribeAlgorithmOption {
	return func(out *sagemaker.DescribeAlgorithmOutput) {
		out.TrainingSpecification.SupportsDistributedTraining = aws.Bool(supported)
	}
}

// WithProductID marks the algorithm as a marketplace product.
func WithProductID(id string) DescribeAlgorithmOption {
	return func(out *sagemaker.DescribeAlgorithmOutput) {
		out.ProductId = aws.String(id)
	}
}

// ScikitDecisionTrees returns a DescribeAlgorithm response modeled on the scikit decision trees
// sample algorithm: one bounded integer hyperparameter with a default, one required free-text
// hyperparameter, a single required File-mode training channel, and no distributed training.
func ScikitDecisionTrees(opts ...DescribeAlgorithmOption) *sagemaker.DescribeAlgorithmOutput {
	out := &sagemaker.DescribeAlgorithmOutput{
		AlgorithmName:        aws.String("scikit-decision-trees"),
		AlgorithmArn:         aws.String("arn:aws:sagemaker:us-east-2:1234:algorithm/scikit-decision-trees"),
		AlgorithmDescription: aws.String("Decision trees using Scikit"),
		AlgorithmStatus:      aws.String(sagemaker.AlgorithmStatusCompleted),
		TrainingSpecification: &sagemaker.TrainingSpecification{
			TrainingImage:       aws.String("123.dkr.ecr.us-east-2.amazonaws.com/decision-trees-sample@sha256:12345"),
			TrainingImageDigest: aws.String("sha256:206854b6ea2f0020d216311da732010515169820b898ec29720bcf1d2b46806a"),
			SupportedHyperParameters: []*sagemaker.HyperParameterSpecification{
				{
					Name:         aws.String("max_leaf_nodes"),
					Description:  aws.String("Grow a tree with max_leaf_nodes in best-first fashion."),
					Type:         aws.String("Integer"),
					Range:        IntegerRange("1", "100000"),
					IsTunable:    aws.Bool(true),
					IsRequired:   aws.Bool(false),
					DefaultValue: aws.String("100"),
				},
				{
					Name:        aws.String("free_text_hp1"),
					Description: aws.String("You can write anything here"),
					Type:        aws.String("FreeText"),
					IsTunable:   aws.Bool(false),
					IsRequired:  aws.Bool(true),
				},
			},
			SupportedTrainingInstanceTypes: aws.StringSlice([]string{
				"ml.m4.xlarge", "ml.m4.2xlarge", "ml.m4.4xlarge",
			}),
			SupportsDistributedTraining: aws.Bool(false),
			MetricDefinitions: []*sagemaker.MetricDefinition{
				{
					Name:  aws.String("validation:accuracy"),
					Regex: aws.String(`validation-accuracy: (\S+)`),
				},
			},
			TrainingChannels: []*sagemaker.ChannelSpecification{
				{
					Name:                      aws.String("training"),
					Description:               aws.String("Input channel that provides training data"),
					IsRequired:                aws.Bool(true),
					SupportedContentTypes:     aws.StringSlice([]string{"text/csv"}),
					SupportedCompressionTypes: aws.StringSlice([]string{"None"}),
					SupportedInputModes:       aws.StringSlice([]string{"File"}),
				},
			},
		},
		InferenceSpecification: &sagemaker.InferenceSpecification{
			Containers: []*sagemaker.ModelPackageContainerDefinition{
				{
					Image: aws.String("123.dkr.ecr.us-east-2.amazonaws.com/decision-trees-sample@sha256:123"),
				},
			},
			SupportedTransformInstanceTypes: aws.StringSlice([]string{"ml.m4.xlarge", "ml.m4.2xlarge"}),
			SupportedContentTypes:           aws.StringSlice([]string{"text/csv"}),
			SupportedResponseMIMETypes:      aws.StringSlice([]string{"text"}),
		},
	}
	for _, opt := range opts {
		opt(out)
	}
	return out
}

// Hyperparameter returns a wire hyperparameter specification.
func Hyperparameter(name, typ string, required bool, rng *sagemaker.ParameterRange) *sagemaker.HyperParameterSpecification {
	return &sagemaker.HyperParameterSpecification{
		Name:       aws.String(name),
		Type:       aws.String(typ),
		IsRequired: aws.Bool(required),
		Range:      rng,
	}
}

// IntegerRange returns an integer parameter range with string bounds, as the wire carries them.
func IntegerRange(min, max string) *sagemaker.ParameterRange {
	return &sagemaker.ParameterRange{
		IntegerParameterRangeSpecification: &sagemaker.IntegerParameterRangeSpecification{
			MinValue: aws.String(min),
			MaxValue: aws.String(max),
		},
	}
}

// ContinuousRange returns a continuous parameter range with string bounds.
func ContinuousRange(min, max string) *sagemaker.ParameterRange {
	return &sagemaker.ParameterRange{
		ContinuousParameterRangeSpecification: &sagemaker.ContinuousParameterRangeSpecification{
			MinValue: aws.String(min),
			MaxValue: aws.String(max),
		},
	}
}

// CategoricalRange returns a categorical parameter range allowing the given values.
func CategoricalRange(values ...string) *sagemaker.ParameterRange {
	return &sagemaker.ParameterRange{
		CategoricalParameterRangeSpecification: &sagemaker.CategoricalParameterRangeSpecification{
			Values: aws.StringSlice(values),
		},
	}
}

// Channel returns a wire channel specification supporting the given input modes.
func Channel(name string, required bool, modes ...string) *sagemaker.ChannelSpecification {
	return &sagemaker.ChannelSpecification{
		Name:                      aws.String(name),
		IsRequired:                aws.Bool(required),
		SupportedContentTypes:     aws.StringSlice([]string{"text/csv"}),
		SupportedCompressionTypes: aws.StringSlice([]string{"None"}),
		SupportedInputModes:       aws.StringSlice(modes),
	}
}

// TrainingJobStatus returns a DescribeTrainingJob response with the given status. Completed jobs
// carry model artifacts.
func TrainingJobStatus(name, status string) *sagemaker.DescribeTrainingJobOutput {
	out := &sagemaker.DescribeTrainingJobOutput{
		TrainingJobName:   aws.String(name),
		TrainingJobStatus: aws.String(status),
	}
	if status == sagemaker.TrainingJobStatusCompleted {
		out.ModelArtifacts = &sagemaker.ModelArtifacts{
			S3ModelArtifacts: aws.String("s3://sagemaker-us-east-2-1234/" + name + "/output/model.tar.gz"),
		}
	}
	return out
}
