// Package session carries the AWS context the SDK operates under: the region, the SageMaker API
// surface, and the account's default artifact bucket.
package session

import (
	"github.com/aws/aws-sdk-go/aws"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/philpot/sagemaker-go-sdk/pkg/check"
)

// SageMakerAPI is the slice of the SageMaker control plane the SDK consumes. The real client
// satisfies it; tests substitute fakes.
type SageMakerAPI interface {
	DescribeAlgorithm(*sagemaker.DescribeAlgorithmInput) (*sagemaker.DescribeAlgorithmOutput, error)
	CreateTrainingJob(*sagemaker.CreateTrainingJobInput) (*sagemaker.CreateTrainingJobOutput, error)
	DescribeTrainingJob(*sagemaker.DescribeTrainingJobInput) (*sagemaker.DescribeTrainingJobOutput, error)
	StopTrainingJob(*sagemaker.StopTrainingJobInput) (*sagemaker.StopTrainingJobOutput, error)
	CreateModel(*sagemaker.CreateModelInput) (*sagemaker.CreateModelOutput, error)
	CreateTransformJob(*sagemaker.CreateTransformJobInput) (*sagemaker.CreateTransformJobOutput, error)
}

// STSAPI is the slice of STS used to discover the caller's account.
type STSAPI interface {
	GetCallerIdentity(*sts.GetCallerIdentityInput) (*sts.GetCallerIdentityOutput, error)
}

// S3API is the slice of S3 used to maintain the default bucket.
type S3API interface {
	CreateBucket(*s3.CreateBucketInput) (*s3.CreateBucketOutput, error)
}

// Config is the configuration of a session.
type Config struct {
	Region string `json:"region"`

	// DefaultBucket overrides the derived default bucket. A bucket set here is trusted to exist
	// and is never created.
	DefaultBucket string `json:"default_bucket,omitempty"`
}

// Validate implements the check.Validatable interface.
func (c Config) Validate() []error {
	return []error{
		check.NotEmpty(c.Region, "region must be set"),
	}
}

// Session wraps the AWS clients behind the narrow interfaces above and caches per-session state
// such as the default bucket. Methods on Session are not safe for concurrent use.
type Session struct {
	region    string
	sagemaker SageMakerAPI
	sts       STSAPI
	s3        S3API

	defaultBucket string

	syslog *logrus.Entry
}

// New creates a session backed by real AWS clients.
//
// Credentials are not configured in code. Use an IAM role or a shared credentials file; see
// https://docs.aws.amazon.com/sdk-for-go/v1/developer-guide/configuring-sdk.html.
func New(cfg Config) (*Session, error) {
	if err := check.Validate(cfg); err != nil {
		return nil, err
	}
	awsSession, err := awssession.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error creating AWS session")
	}
	return fromAWS(awsSession, cfg), nil
}

// NewFromAWS wraps an already-built AWS SDK session. The region defaults to the one the AWS
// session resolved from its environment.
func NewFromAWS(awsSession *awssession.Session, cfg Config) (*Session, error) {
	if cfg.Region == "" && awsSession.Config != nil {
		cfg.Region = aws.StringValue(awsSession.Config.Region)
	}
	if err := check.Validate(cfg); err != nil {
		return nil, err
	}
	return fromAWS(awsSession, cfg), nil
}

// NewWithClients builds a session from pre-built API clients. Tests use it to substitute fakes
// for the real control plane.
func NewWithClients(region string, smClient SageMakerAPI, stsClient STSAPI, s3Client S3API) *Session {
	return &Session{
		region:    region,
		sagemaker: smClient,
		sts:       stsClient,
		s3:        s3Client,
		syslog:    logrus.WithField("component", "session"),
	}
}

func fromAWS(awsSession *awssession.Session, cfg Config) *Session {
	return &Session{
		region:        cfg.Region,
		sagemaker:     sagemaker.New(awsSession),
		sts:           sts.New(awsSession),
		s3:            s3.New(awsSession),
		defaultBucket: cfg.DefaultBucket,
		syslog:        logrus.WithField("component", "session"),
	}
}

// Region returns the region the session operates in.
func (s *Session) Region() string {
	return s.region
}

// SageMaker returns the session's SageMaker API surface.
func (s *Session) SageMaker() SageMakerAPI {
	return s.sagemaker
}
