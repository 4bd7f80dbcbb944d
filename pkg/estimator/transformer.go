package estimator

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/philpot/sagemaker-go-sdk/pkg/algorithm"
	"github.com/philpot/sagemaker-go-sdk/pkg/session"
)

// ErrNoCompletedTrainingJob is returned when a transformer is requested before the estimator's
// latest training job has completed.
var ErrNoCompletedTrainingJob = errors.New(
	"no completed training job found associated with this estimator")

// TransformerOption adjusts transformer creation.
type TransformerOption func(*transformerSettings)

type transformerSettings struct {
	env        map[string]string
	outputPath string
	modelName  string
}

// WithTransformEnvironment sets environment variables for the model's inference containers.
// Marketplace algorithms run with network isolation and the platform refuses custom environments
// for them, so a product ID suppresses the variables.
func WithTransformEnvironment(env map[string]string) TransformerOption {
	return func(s *transformerSettings) {
		s.env = env
	}
}

// WithTransformOutputPath sets the S3 location transform results are written to.
func WithTransformOutputPath(path string) TransformerOption {
	return func(s *transformerSettings) {
		s.outputPath = path
	}
}

// WithModelName overrides the generated model name.
func WithModelName(name string) TransformerOption {
	return func(s *transformerSettings) {
		s.modelName = name
	}
}

// Transformer runs batch transform jobs against a model registered from a completed training
// job.
type Transformer struct {
	ModelName     string
	InstanceType  string
	InstanceCount int

	sess       *session.Session
	env        map[string]string
	outputPath string
	baseName   string

	syslog *logrus.Entry
}

// Transformer registers the latest training job's artifacts as a model and returns a transformer
// over it. It fails with ErrNoCompletedTrainingJob unless the estimator's latest training job
// has been observed in the completed state.
func (e *AlgorithmEstimator) Transformer(
	count int, instanceType string, opts ...TransformerOption,
) (*Transformer, error) {
	settings := transformerSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	job := e.latestTrainingJob
	if job == nil || job.State() != StateCompleted {
		return nil, ErrNoCompletedTrainingJob
	}
	if e.spec.Inference == nil {
		return nil, errors.Errorf("algorithm %s does not declare an inference specification", e.spec.Name)
	}
	if err := e.validateTransformResources(count, instanceType); err != nil {
		return nil, err
	}
	artifacts, err := job.ModelArtifacts()
	if err != nil {
		return nil, err
	}

	base := e.config.BaseJobName
	if base == "" {
		base = e.spec.Name
	}
	modelName := settings.modelName
	if modelName == "" {
		modelName = session.NameFromBase(base)
	}

	env := settings.env
	if e.spec.NetworkIsolation() {
		env = nil
	}
	container := &sagemaker.ContainerDefinition{
		Image:        aws.String(e.spec.Inference.Image),
		ModelDataUrl: aws.String(artifacts),
	}
	if len(env) > 0 {
		container.Environment = aws.StringMap(env)
	}
	input := &sagemaker.CreateModelInput{
		ModelName:              aws.String(modelName),
		PrimaryContainer:       container,
		ExecutionRoleArn:       aws.String(e.config.Role),
		EnableNetworkIsolation: aws.Bool(e.spec.NetworkIsolation()),
	}
	if _, err := e.sess.SageMaker().CreateModel(input); err != nil {
		return nil, errors.Wrapf(err, "cannot create model %s", modelName)
	}
	e.syslog.Infof("created model %s from training job %s", modelName, job.Name())

	return &Transformer{
		ModelName:     modelName,
		InstanceType:  instanceType,
		InstanceCount: count,
		sess:          e.sess,
		env:           env,
		outputPath:    settings.outputPath,
		baseName:      base,
		syslog:        logrus.WithField("model", modelName),
	}, nil
}

func (e *AlgorithmEstimator) validateTransformResources(count int, instanceType string) error {
	if count < 1 {
		return algorithm.AsInvalidConfig("transform instance count must be positive, got %d", count)
	}
	supported := e.spec.Inference.TransformInstanceTypes
	if len(supported) == 0 {
		return nil
	}
	for _, t := range supported {
		if t == instanceType {
			return nil
		}
	}
	return algorithm.AsInvalidConfig(
		"instance type %s is not supported for transform jobs by algorithm %s (supported: %s)",
		instanceType, e.spec.Name, strings.Join(supported, ", "))
}

// Env returns the environment the model's containers were registered with, nil when the
// algorithm's product ID suppressed it.
func (t *Transformer) Env() map[string]string {
	return t.env
}

// TransformInput describes a single batch transform request.
type TransformInput struct {
	// Data is the S3 location of the input data.
	Data string

	// DataType defaults to S3Prefix.
	DataType string

	ContentType     string
	CompressionType string

	// SplitType defaults to splitting on lines.
	SplitType string

	// OutputPath overrides the transformer's output location for this job.
	OutputPath string
}

// Transform submits a batch transform job against the transformer's model and returns the job's
// name. It does not wait for the job to finish.
func (t *Transformer) Transform(input TransformInput) (string, error) {
	if input.Data == "" {
		return "", algorithm.AsInvalidConfig("transform input data location must be set")
	}
	jobName := session.NameFromBase(t.baseName)

	outputPath := input.OutputPath
	if outputPath == "" {
		outputPath = t.outputPath
	}
	if outputPath == "" {
		bucket, err := t.sess.DefaultBucket()
		if err != nil {
			return "", err
		}
		outputPath = fmt.Sprintf("s3://%s/%s", bucket, jobName)
	}

	dataType := input.DataType
	if dataType == "" {
		dataType = sagemaker.S3DataTypeS3prefix
	}
	splitType := input.SplitType
	if splitType == "" {
		splitType = sagemaker.SplitTypeLine
	}

	req := &sagemaker.CreateTransformJobInput{
		TransformJobName: aws.String(jobName),
		ModelName:        aws.String(t.ModelName),
		TransformInput: &sagemaker.TransformInput{
			DataSource: &sagemaker.TransformDataSource{
				S3DataSource: &sagemaker.TransformS3DataSource{
					S3DataType: aws.String(dataType),
					S3Uri:      aws.String(input.Data),
				},
			},
			SplitType: aws.String(splitType),
		},
		TransformOutput: &sagemaker.TransformOutput{
			S3OutputPath: aws.String(outputPath),
		},
		TransformResources: &sagemaker.TransformResources{
			InstanceType:  aws.String(t.InstanceType),
			InstanceCount: aws.Int64(int64(t.InstanceCount)),
		},
	}
	if input.ContentType != "" {
		req.TransformInput.ContentType = aws.String(input.ContentType)
	}
	if input.CompressionType != "" {
		req.TransformInput.CompressionType = aws.String(input.CompressionType)
	}
	if _, err := t.sess.SageMaker().CreateTransformJob(req); err != nil {
		return "", errors.Wrapf(err, "cannot create transform job %s", jobName)
	}
	t.syslog.Infof("submitted transform job %s", jobName)
	return jobName, nil
}
