package mocks

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/sts"
)

// STSAPI is a fake of the session.STSAPI interface answering with a fixed account ID.
type STSAPI struct {
	Account string
	Err     error

	History []Call
}

// GetCallerIdentity implements the session.STSAPI interface.
func (m *STSAPI) GetCallerIdentity(
	input *sts.GetCallerIdentityInput,
) (*sts.GetCallerIdentityOutput, error) {
	m.History = append(m.History, Call{Name: "GetCallerIdentity", Input: input})
	if m.Err != nil {
		return nil, m.Err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String(m.Account)}, nil
}

// S3API is a fake of the session.S3API interface.
type S3API struct {
	CreateBucketErr error

	History []Call
}

// CreateBucket implements the session.S3API interface.
func (m *S3API) CreateBucket(input *s3.CreateBucketInput) (*s3.CreateBucketOutput, error) {
	m.History = append(m.History, Call{Name: "CreateBucket", Input: input})
	if m.CreateBucketErr != nil {
		return nil, m.CreateBucketErr
	}
	return &s3.CreateBucketOutput{}, nil
}
