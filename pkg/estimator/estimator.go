// Package estimator drives the lifecycle of algorithm training jobs: it fetches the algorithm's
// specification, rejects configurations the algorithm cannot run before anything is submitted,
// and hands out handles on the jobs and models it creates.
package estimator

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/philpot/sagemaker-go-sdk/pkg/algorithm"
	"github.com/philpot/sagemaker-go-sdk/pkg/check"
	"github.com/philpot/sagemaker-go-sdk/pkg/session"
	"github.com/philpot/sagemaker-go-sdk/pkg/set"
)

const (
	defaultVolumeSizeGB = 30
	defaultMaxRuntime   = 24 * time.Hour
)

// Config holds the caller-supplied training setup for an estimator.
type Config struct {
	// Role is the ARN of the IAM role training jobs assume. It must be set before Fit.
	Role string

	InstanceType  string
	InstanceCount int

	// InputMode defaults to File.
	InputMode algorithm.InputMode

	// OutputPath is the S3 location artifacts are written under. It defaults to the session's
	// default bucket.
	OutputPath string

	// BaseJobName seeds generated job and model names. An empty base gets a generated pet name
	// per job.
	BaseJobName string

	// VolumeSizeGB is the size of the ML storage volume, 30 when unset.
	VolumeSizeGB int

	// MaxRuntime bounds the training time, 24 hours when unset.
	MaxRuntime time.Duration

	// Hyperparameters supplied here are validated during New, exactly as if passed to
	// SetHyperparameters.
	Hyperparameters map[string]interface{}
}

func (c *Config) resolve() {
	if c.InputMode == "" {
		c.InputMode = algorithm.FileInputMode
	}
	if c.VolumeSizeGB == 0 {
		c.VolumeSizeGB = defaultVolumeSizeGB
	}
	if c.MaxRuntime == 0 {
		c.MaxRuntime = defaultMaxRuntime
	}
}

// AlgorithmEstimator trains with an algorithm published on the platform. All validation the
// algorithm's specification allows happens client-side, before any job is submitted.
type AlgorithmEstimator struct {
	sess   *session.Session
	arn    string
	spec   *algorithm.Spec
	config Config

	// hyperparameters holds validated values in their canonical string form.
	hyperparameters map[string]string

	latestTrainingJob *TrainingJob

	syslog *logrus.Entry
}

// New fetches the algorithm's specification and fail-fast checks the requested instance type,
// input mode, and cluster size before returning an estimator. A malformed published
// specification is an error.
func New(sess *session.Session, algorithmARN string, cfg Config) (*AlgorithmEstimator, error) {
	cfg.resolve()
	out, err := sess.SageMaker().DescribeAlgorithm(&sagemaker.DescribeAlgorithmInput{
		AlgorithmName: aws.String(algorithmARN),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot describe algorithm %s", algorithmARN)
	}
	spec, err := algorithm.FromDescribeOutput(out)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse the specification of algorithm %s", algorithmARN)
	}
	if err := check.Validate(*spec); err != nil {
		return nil, errors.Wrapf(err, "algorithm %s published a malformed specification", algorithmARN)
	}
	if err := spec.ValidateInstanceType(cfg.InstanceType); err != nil {
		return nil, err
	}
	if err := spec.ValidateInputMode(cfg.InputMode); err != nil {
		return nil, err
	}
	if err := spec.ValidateInstanceCount(cfg.InstanceCount); err != nil {
		return nil, err
	}
	e := &AlgorithmEstimator{
		sess:            sess,
		arn:             algorithmARN,
		spec:            spec,
		config:          cfg,
		hyperparameters: make(map[string]string),
		syslog:          logrus.WithField("algorithm", spec.Name),
	}
	if len(cfg.Hyperparameters) > 0 {
		if err := e.SetHyperparameters(cfg.Hyperparameters); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Spec returns the algorithm's parsed specification.
func (e *AlgorithmEstimator) Spec() *algorithm.Spec {
	return e.spec
}

// Hyperparameters returns the accumulated hyperparameters in their canonical string form,
// including filled defaults.
func (e *AlgorithmEstimator) Hyperparameters() map[string]string {
	out := make(map[string]string, len(e.hyperparameters))
	for name, value := range e.hyperparameters {
		out[name] = value
	}
	return out
}

// LatestTrainingJob returns the most recently submitted training job, or nil before the first
// Fit.
func (e *AlgorithmEstimator) LatestTrainingJob() *TrainingJob {
	return e.latestTrainingJob
}

// SetHyperparameters validates the given values and stores their canonical string forms. Later
// calls overwrite earlier values name by name. Once the values are applied, declared defaults
// fill any unset names and the required set is re-checked, so a still-missing required
// hyperparameter is reported immediately. Values applied before the failing one stay applied.
func (e *AlgorithmEstimator) SetHyperparameters(values map[string]interface{}) error {
	for _, name := range sortedKeys(values) {
		hp := e.spec.Hyperparameter(name)
		if hp == nil {
			return algorithm.AsInvalidConfig(
				"hyperparameter %s is not supported by algorithm %s", name, e.spec.Name)
		}
		canonical, err := hp.CheckValue(values[name])
		if err != nil {
			return err
		}
		e.hyperparameters[name] = canonical
	}
	e.fillDefaultHyperparameters()
	return e.spec.ValidateRequiredHyperparameters(keys(e.hyperparameters))
}

// FitOption adjusts a single Fit call.
type FitOption func(*fitSettings)

type fitSettings struct {
	jobName string
}

// WithJobName overrides the generated training job name.
func WithJobName(name string) FitOption {
	return func(s *fitSettings) {
		s.jobName = name
	}
}

// Fit runs the remaining submission-time checks and submits the training job. The supplied
// inputs map channel names to S3 data locations. Channel and hyperparameter violations are
// aggregated so the caller sees every problem at once. Fit does not wait for the job to finish;
// use the returned TrainingJob to follow it.
func (e *AlgorithmEstimator) Fit(inputs map[string]string, opts ...FitOption) (*TrainingJob, error) {
	settings := fitSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	e.fillDefaultHyperparameters()

	var merr *multierror.Error
	if e.config.Role == "" {
		merr = multierror.Append(merr, algorithm.AsInvalidConfig("role ARN must be set before submission"))
	}
	merr = multierror.Append(merr, e.spec.ValidateChannels(sortedKeys(inputs)))
	merr = multierror.Append(merr, e.spec.ValidateRequiredHyperparameters(keys(e.hyperparameters)))
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}

	jobName := settings.jobName
	if jobName == "" {
		jobName = session.NameFromBase(e.config.BaseJobName)
	}
	outputPath := e.config.OutputPath
	if outputPath == "" {
		bucket, err := e.sess.DefaultBucket()
		if err != nil {
			return nil, err
		}
		outputPath = fmt.Sprintf("s3://%s/", bucket)
	}

	input := &sagemaker.CreateTrainingJobInput{
		TrainingJobName: aws.String(jobName),
		AlgorithmSpecification: &sagemaker.AlgorithmSpecification{
			AlgorithmName:     aws.String(e.arn),
			TrainingInputMode: aws.String(string(e.config.InputMode)),
		},
		RoleArn: aws.String(e.config.Role),
		ResourceConfig: &sagemaker.ResourceConfig{
			InstanceType:   aws.String(e.config.InstanceType),
			InstanceCount:  aws.Int64(int64(e.config.InstanceCount)),
			VolumeSizeInGB: aws.Int64(int64(e.config.VolumeSizeGB)),
		},
		StoppingCondition: &sagemaker.StoppingCondition{
			MaxRuntimeInSeconds: aws.Int64(int64(e.config.MaxRuntime / time.Second)),
		},
		OutputDataConfig: &sagemaker.OutputDataConfig{
			S3OutputPath: aws.String(outputPath),
		},
		EnableNetworkIsolation: aws.Bool(e.spec.NetworkIsolation()),
	}
	if len(e.hyperparameters) > 0 {
		input.HyperParameters = aws.StringMap(e.hyperparameters)
	}
	for _, name := range sortedKeys(inputs) {
		input.InputDataConfig = append(input.InputDataConfig, &sagemaker.Channel{
			ChannelName: aws.String(name),
			InputMode:   aws.String(string(e.config.InputMode)),
			DataSource: &sagemaker.DataSource{
				S3DataSource: &sagemaker.S3DataSource{
					S3DataType:             aws.String(sagemaker.S3DataTypeS3prefix),
					S3Uri:                  aws.String(inputs[name]),
					S3DataDistributionType: aws.String(sagemaker.S3DataDistributionFullyReplicated),
				},
			},
		})
	}
	if _, err := e.sess.SageMaker().CreateTrainingJob(input); err != nil {
		return nil, errors.Wrapf(err, "cannot create training job %s", jobName)
	}
	e.syslog.Infof("submitted training job %s", jobName)
	e.latestTrainingJob = NewTrainingJob(e.sess, jobName)
	return e.latestTrainingJob, nil
}

func (e *AlgorithmEstimator) fillDefaultHyperparameters() {
	for _, hp := range e.spec.Hyperparameters {
		if hp.Default == nil {
			continue
		}
		if _, ok := e.hyperparameters[hp.Name]; !ok {
			e.hyperparameters[hp.Name] = *hp.Default
		}
	}
}

// sortedKeys orders map keys so requests and error messages come out deterministic.
func sortedKeys[V any](m map[string]V) []string {
	return set.SortedSlice(set.FromKeys(m))
}

func keys[V any](m map[string]V) []string {
	return set.FromKeys(m).ToSlice()
}
