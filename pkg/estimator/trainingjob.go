package estimator

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/philpot/sagemaker-go-sdk/pkg/session"
)

// State is the lifecycle state of a training job.
type State string

// The states a training job moves through.
const (
	// StatePending denotes that the job was submitted but no status has been observed yet.
	StatePending State = "PENDING"
	// StateTraining denotes that the platform is running the job.
	StateTraining State = "TRAINING"
	// StateStopping denotes that a stop was requested and the platform is winding the job down.
	StateStopping State = "STOPPING"
	// StateCompleted denotes that the job finished and produced model artifacts.
	StateCompleted State = "COMPLETED"
	// StateFailed denotes that the job finished unsuccessfully.
	StateFailed State = "FAILED"
	// StateStopped denotes that the job was stopped before completing.
	StateStopped State = "STOPPED"
)

// TrainingJobTransitions maps training job states to the states they can move into.
var TrainingJobTransitions = map[State]map[State]bool{
	StatePending: {
		StateTraining:  true,
		StateStopping:  true,
		StateCompleted: true,
		StateFailed:    true,
		StateStopped:   true,
	},
	StateTraining: {
		StateStopping:  true,
		StateCompleted: true,
		StateFailed:    true,
		StateStopped:   true,
	},
	StateStopping: {
		StateCompleted: true,
		StateFailed:    true,
		StateStopped:   true,
	},
	StateCompleted: {},
	StateFailed:    {},
	StateStopped:   {},
}

// TerminalStates are the states a training job cannot leave.
var TerminalStates = map[State]bool{
	StateCompleted: true,
	StateFailed:    true,
	StateStopped:   true,
}

// trainingJobStates maps the platform's training job statuses to states. See
// https://docs.aws.amazon.com/sagemaker/latest/APIReference/API_DescribeTrainingJob.html.
var trainingJobStates = map[string]State{
	sagemaker.TrainingJobStatusInProgress: StateTraining,
	sagemaker.TrainingJobStatusCompleted:  StateCompleted,
	sagemaker.TrainingJobStatusFailed:     StateFailed,
	sagemaker.TrainingJobStatusStopping:   StateStopping,
	sagemaker.TrainingJobStatusStopped:    StateStopped,
}

// TrainingJob tracks a submitted training job. Its state changes only when Update is called; the
// job never polls on its own.
type TrainingJob struct {
	sess *session.Session
	name string

	state         State
	artifacts     string
	failureReason string

	syslog *logrus.Entry
}

// NewTrainingJob returns a handle on a submitted training job in the pending state.
func NewTrainingJob(sess *session.Session, name string) *TrainingJob {
	return &TrainingJob{
		sess:   sess,
		name:   name,
		state:  StatePending,
		syslog: logrus.WithField("training-job", name),
	}
}

// Name returns the platform-side name of the job.
func (j *TrainingJob) Name() string {
	return j.name
}

// State returns the last observed state of the job.
func (j *TrainingJob) State() State {
	return j.state
}

// FailureReason returns the platform's failure reason, if the last update carried one.
func (j *TrainingJob) FailureReason() string {
	return j.failureReason
}

// ModelArtifacts returns the S3 location of the trained model. Only completed jobs have one.
func (j *TrainingJob) ModelArtifacts() (string, error) {
	if j.state != StateCompleted {
		return "", errors.Errorf("training job %s has not completed (state %s)", j.name, j.state)
	}
	return j.artifacts, nil
}

// Update refreshes the job's state with a single describe call.
func (j *TrainingJob) Update() error {
	out, err := j.sess.SageMaker().DescribeTrainingJob(&sagemaker.DescribeTrainingJobInput{
		TrainingJobName: aws.String(j.name),
	})
	if err != nil {
		return errors.Wrapf(err, "cannot describe training job %s", j.name)
	}
	status := aws.StringValue(out.TrainingJobStatus)
	next, ok := trainingJobStates[status]
	if !ok {
		return errors.Errorf("training job %s reported unknown status %q", j.name, status)
	}
	if out.ModelArtifacts != nil {
		j.artifacts = aws.StringValue(out.ModelArtifacts.S3ModelArtifacts)
	}
	j.failureReason = aws.StringValue(out.FailureReason)
	return j.transition(next)
}

// Stop asks the platform to stop the job. The resulting state lands through a later Update; the
// platform reports stopping and stopped asynchronously.
func (j *TrainingJob) Stop() error {
	_, err := j.sess.SageMaker().StopTrainingJob(&sagemaker.StopTrainingJobInput{
		TrainingJobName: aws.String(j.name),
	})
	return errors.Wrapf(err, "cannot stop training job %s", j.name)
}

func (j *TrainingJob) transition(next State) error {
	if next == j.state {
		return nil
	}
	if !TrainingJobTransitions[j.state][next] {
		return errors.Errorf("training job %s cannot transition from %s to %s", j.name, j.state, next)
	}
	j.syslog.Infof("transitioning from %s to %s", j.state, next)
	j.state = next
	return nil
}
