// Package mocks provides hand-written fakes for the slices of the AWS control plane the SDK
// consumes, plus canned DescribeAlgorithm responses for tests. The fakes record every call so
// tests can assert on the exact requests sent.
package mocks

import (
	"github.com/aws/aws-sdk-go/service/sagemaker"
)

// Call records a single API invocation.
type Call struct {
	Name  string
	Input interface{}
}

// SageMakerAPI is a programmable fake of the session.SageMakerAPI interface. The zero value
// answers every call successfully with an empty response; tests set individual outputs or errors
// and inspect History afterwards.
type SageMakerAPI struct {
	DescribeAlgorithmOutput *sagemaker.DescribeAlgorithmOutput
	DescribeAlgorithmErr    error

	CreateTrainingJobErr error

	DescribeTrainingJobOutput *sagemaker.DescribeTrainingJobOutput
	DescribeTrainingJobErr    error

	StopTrainingJobErr error

	CreateModelErr error

	CreateTransformJobErr error

	History []Call
}

func (m *SageMakerAPI) record(name string, input interface{}) {
	m.History = append(m.History, Call{Name: name, Input: input})
}

// LastInput returns the input of the most recent call with the given name, or nil when no such
// call was made.
func (m *SageMakerAPI) LastInput(name string) interface{} {
	for i := len(m.History) - 1; i >= 0; i-- {
		if m.History[i].Name == name {
			return m.History[i].Input
		}
	}
	return nil
}

// Calls returns how many calls with the given name were made.
func (m *SageMakerAPI) Calls(name string) int {
	count := 0
	for _, call := range m.History {
		if call.Name == name {
			count++
		}
	}
	return count
}

// DescribeAlgorithm implements the session.SageMakerAPI interface.
func (m *SageMakerAPI) DescribeAlgorithm(
	input *sagemaker.DescribeAlgorithmInput,
) (*sagemaker.DescribeAlgorithmOutput, error) {
	m.record("DescribeAlgorithm", input)
	if m.DescribeAlgorithmErr != nil {
		return nil, m.DescribeAlgorithmErr
	}
	if m.DescribeAlgorithmOutput != nil {
		return m.DescribeAlgorithmOutput, nil
	}
	return &sagemaker.DescribeAlgorithmOutput{}, nil
}

// CreateTrainingJob implements the session.SageMakerAPI interface.
func (m *SageMakerAPI) CreateTrainingJob(
	input *sagemaker.CreateTrainingJobInput,
) (*sagemaker.CreateTrainingJobOutput, error) {
	m.record("CreateTrainingJob", input)
	if m.CreateTrainingJobErr != nil {
		return nil, m.CreateTrainingJobErr
	}
	return &sagemaker.CreateTrainingJobOutput{}, nil
}

// DescribeTrainingJob implements the session.SageMakerAPI interface.
func (m *SageMakerAPI) DescribeTrainingJob(
	input *sagemaker.DescribeTrainingJobInput,
) (*sagemaker.DescribeTrainingJobOutput, error) {
	m.record("DescribeTrainingJob", input)
	if m.DescribeTrainingJobErr != nil {
		return nil, m.DescribeTrainingJobErr
	}
	if m.DescribeTrainingJobOutput != nil {
		return m.DescribeTrainingJobOutput, nil
	}
	return &sagemaker.DescribeTrainingJobOutput{}, nil
}

// StopTrainingJob implements the session.SageMakerAPI interface.
func (m *SageMakerAPI) StopTrainingJob(
	input *sagemaker.StopTrainingJobInput,
) (*sagemaker.StopTrainingJobOutput, error) {
	m.record("StopTrainingJob", input)
	if m.StopTrainingJobErr != nil {
		return nil, m.StopTrainingJobErr
	}
	return &sagemaker.StopTrainingJobOutput{}, nil
}

// CreateModel implements the session.SageMakerAPI interface.
func (m *SageMakerAPI) CreateModel(
	input *sagemaker.CreateModelInput,
) (*sagemaker.CreateModelOutput, error) {
	m.record("CreateModel", input)
	if m.CreateModelErr != nil {
		return nil, m.CreateModelErr
	}
	return &sagemaker.CreateModelOutput{}, nil
}

// CreateTransformJob implements the session.SageMakerAPI interface.
func (m *SageMakerAPI) CreateTransformJob(
	input *sagemaker.CreateTransformJobInput,
) (*sagemaker.CreateTransformJobOutput, error) {
	m.record("CreateTransformJob", input)
	if m.CreateTransformJobErr != nil {
		return nil, m.CreateTransformJobErr
	}
	return &sagemaker.CreateTransformJobOutput{}, nil
}
