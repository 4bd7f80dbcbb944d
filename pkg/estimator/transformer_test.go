package estimator

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/philpot/sagemaker-go-sdk/internal/mocks"
	"github.com/philpot/sagemaker-go-sdk/pkg/algorithm"
)

// newFittedEstimator submits a training job and walks it to completion so a transformer can be
// created from it.
func newFittedEstimator(t *testing.T, api *mocks.SageMakerAPI) *AlgorithmEstimator {
	e := newTestEstimator(t, api, validConfig())
	require.NoError(t, e.SetHyperparameters(map[string]interface{}{"free_text_hp1": "foo"}))
	job, err := e.Fit(map[string]string{"training": "s3://mybucket/train"})
	require.NoError(t, err)

	api.DescribeTrainingJobOutput = mocks.TrainingJobStatus(
		job.Name(), sagemaker.TrainingJobStatusCompleted)
	require.NoError(t, job.Update())
	return e
}

func TestTransformerRequiresCompletedJob(t *testing.T) {
	api := newTestAPI()
	e := newTestEstimator(t, api, validConfig())
	require.NoError(t, e.SetHyperparameters(map[string]interface{}{"free_text_hp1": "foo"}))

	_, err := e.Transformer(1, "ml.m4.xlarge")
	require.ErrorIs(t, err, ErrNoCompletedTrainingJob)

	_, err = e.Fit(map[string]string{"training": "s3://mybucket/train"})
	require.NoError(t, err)
	_, err = e.Transformer(1, "ml.m4.xlarge")
	require.ErrorIs(t, err, ErrNoCompletedTrainingJob)

	job := e.LatestTrainingJob()
	api.DescribeTrainingJobOutput = mocks.TrainingJobStatus(
		job.Name(), sagemaker.TrainingJobStatusCompleted)
	require.NoError(t, job.Update())

	transformer, err := e.Transformer(1, "ml.m4.xlarge")
	require.NoError(t, err)
	require.Regexp(t, `^scikit-decision-trees-\d{8}-\d{6}-[0-9a-f]+$`, transformer.ModelName)
	require.Equal(t, "ml.m4.xlarge", transformer.InstanceType)
	require.Equal(t, 1, transformer.InstanceCount)
}

func TestTransformerCreatesModel(t *testing.T) {
	api := newTestAPI()
	e := newFittedEstimator(t, api)
	jobName := e.LatestTrainingJob().Name()

	transformer, err := e.Transformer(1, "ml.m4.xlarge",
		WithModelName("my-model"),
		WithTransformEnvironment(map[string]string{"MODE": "batch"}),
	)
	require.NoError(t, err)
	require.Equal(t, "my-model", transformer.ModelName)
	require.Equal(t, map[string]string{"MODE": "batch"}, transformer.Env())

	input, ok := api.LastInput("CreateModel").(*sagemaker.CreateModelInput)
	require.True(t, ok)
	require.Equal(t, "my-model", aws.StringValue(input.ModelName))
	require.Equal(t, testRole, aws.StringValue(input.ExecutionRoleArn))
	require.False(t, aws.BoolValue(input.EnableNetworkIsolation))
	require.Equal(t, "123.dkr.ecr.us-east-2.amazonaws.com/decision-trees-sample@sha256:123",
		aws.StringValue(input.PrimaryContainer.Image))
	require.Equal(t, "s3://sagemaker-us-east-2-1234/"+jobName+"/output/model.tar.gz",
		aws.StringValue(input.PrimaryContainer.ModelDataUrl))
	require.Equal(t, map[string]string{"MODE": "batch"},
		aws.StringValueMap(input.PrimaryContainer.Environment))
}

func TestTransformerMarketplaceSuppressesEnvironment(t *testing.T) {
	api := &mocks.SageMakerAPI{
		DescribeAlgorithmOutput: mocks.ScikitDecisionTrees(mocks.WithProductID("prod-1234")),
	}
	e := newFittedEstimator(t, api)

	transformer, err := e.Transformer(1, "ml.m4.xlarge",
		WithTransformEnvironment(map[string]string{"MODE": "batch"}),
	)
	require.NoError(t, err)
	require.Nil(t, transformer.Env())

	input := api.LastInput("CreateModel").(*sagemaker.CreateModelInput)
	require.True(t, aws.BoolValue(input.EnableNetworkIsolation))
	require.Nil(t, input.PrimaryContainer.Environment)
}

func TestTransformerValidatesResources(t *testing.T) {
	api := newTestAPI()
	e := newFittedEstimator(t, api)

	_, err := e.Transformer(1, "ml.p3.2xlarge")
	require.ErrorIs(t, err, algorithm.ErrInvalidConfig)
	require.ErrorContains(t, err, "instance type ml.p3.2xlarge is not supported for transform jobs "+
		"by algorithm scikit-decision-trees (supported: ml.m4.xlarge, ml.m4.2xlarge)")

	_, err = e.Transformer(0, "ml.m4.xlarge")
	require.ErrorIs(t, err, algorithm.ErrInvalidConfig)
	require.ErrorContains(t, err, "transform instance count must be positive, got 0")
}

func TestTransformerRequiresInferenceSpec(t *testing.T) {
	out := mocks.ScikitDecisionTrees()
	out.InferenceSpecification = nil
	api := &mocks.SageMakerAPI{DescribeAlgorithmOutput: out}
	e := newFittedEstimator(t, api)

	_, err := e.Transformer(1, "ml.m4.xlarge")
	require.ErrorContains(t, err,
		"algorithm scikit-decision-trees does not declare an inference specification")
}

func TestTransformerCreateModelFailure(t *testing.T) {
	api := newTestAPI()
	e := newFittedEstimator(t, api)
	api.CreateModelErr = errors.New("denied")

	_, err := e.Transformer(1, "ml.m4.xlarge")
	require.ErrorContains(t, err, "cannot create model")
}

func TestTransform(t *testing.T) {
	api := newTestAPI()
	e := newFittedEstimator(t, api)
	transformer, err := e.Transformer(1, "ml.m4.xlarge", WithModelName("my-model"))
	require.NoError(t, err)

	jobName, err := transformer.Transform(TransformInput{
		Data:            "s3://mybucket/batch",
		ContentType:     "text/csv",
		CompressionType: "Gzip",
	})
	require.NoError(t, err)
	require.Regexp(t, `^scikit-decision-trees-\d{8}-\d{6}-[0-9a-f]+$`, jobName)

	input, ok := api.LastInput("CreateTransformJob").(*sagemaker.CreateTransformJobInput)
	require.True(t, ok)
	require.Equal(t, jobName, aws.StringValue(input.TransformJobName))
	require.Equal(t, "my-model", aws.StringValue(input.ModelName))
	require.Equal(t, "s3://mybucket/batch",
		aws.StringValue(input.TransformInput.DataSource.S3DataSource.S3Uri))
	require.Equal(t, sagemaker.S3DataTypeS3prefix,
		aws.StringValue(input.TransformInput.DataSource.S3DataSource.S3DataType))
	require.Equal(t, sagemaker.SplitTypeLine, aws.StringValue(input.TransformInput.SplitType))
	require.Equal(t, "text/csv", aws.StringValue(input.TransformInput.ContentType))
	require.Equal(t, "Gzip", aws.StringValue(input.TransformInput.CompressionType))
	require.Equal(t, "s3://sagemaker-us-east-2-1234/"+jobName,
		aws.StringValue(input.TransformOutput.S3OutputPath))
	require.Equal(t, "ml.m4.xlarge", aws.StringValue(input.TransformResources.InstanceType))
	require.Equal(t, int64(1), aws.Int64Value(input.TransformResources.InstanceCount))
}

func TestTransformOutputPaths(t *testing.T) {
	api := newTestAPI()
	e := newFittedEstimator(t, api)
	transformer, err := e.Transformer(1, "ml.m4.xlarge",
		WithTransformOutputPath("s3://results/default/"))
	require.NoError(t, err)

	_, err = transformer.Transform(TransformInput{Data: "s3://mybucket/batch"})
	require.NoError(t, err)
	input := api.LastInput("CreateTransformJob").(*sagemaker.CreateTransformJobInput)
	require.Equal(t, "s3://results/default/", aws.StringValue(input.TransformOutput.S3OutputPath))

	_, err = transformer.Transform(TransformInput{
		Data:       "s3://mybucket/batch",
		OutputPath: "s3://results/override/",
	})
	require.NoError(t, err)
	input = api.LastInput("CreateTransformJob").(*sagemaker.CreateTransformJobInput)
	require.Equal(t, "s3://results/override/", aws.StringValue(input.TransformOutput.S3OutputPath))
}

func TestTransformRequiresData(t *testing.T) {
	api := newTestAPI()
	e := newFittedEstimator(t, api)
	transformer, err := e.Transformer(1, "ml.m4.xlarge")
	require.NoError(t, err)

	_, err = transformer.Transform(TransformInput{})
	require.ErrorIs(t, err, algorithm.ErrInvalidConfig)
	require.ErrorContains(t, err, "transform input data location must be set")
	require.Zero(t, api.Calls("CreateTransformJob"))
}

func TestTransformSubmissionFailure(t *testing.T) {
	api := newTestAPI()
	e := newFittedEstimator(t, api)
	transformer, err := e.Transformer(1, "ml.m4.xlarge")
	require.NoError(t, err)

	api.CreateTransformJobErr = errors.New("limit exceeded")
	_, err = transformer.Transform(TransformInput{Data: "s3://mybucket/batch"})
	require.ErrorContains(t, err, "cannot create transform job")
}
