package session

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/pkg/errors"
)

// DefaultBucket returns the bucket training outputs and transform results default to, named
// sagemaker-{region}-{account}, creating it on first use. A bucket supplied through
// Config.DefaultBucket is returned as-is. The result is cached for the life of the session.
func (s *Session) DefaultBucket() (string, error) {
	if s.defaultBucket != "" {
		return s.defaultBucket, nil
	}
	identity, err := s.sts.GetCallerIdentity(&sts.GetCallerIdentityInput{})
	if err != nil {
		return "", errors.Wrap(err, "cannot resolve the caller's AWS account")
	}
	bucket := fmt.Sprintf("sagemaker-%s-%s", s.region, aws.StringValue(identity.Account))
	if err := s.createBucket(bucket); err != nil {
		return "", err
	}
	s.defaultBucket = bucket
	return bucket, nil
}

func (s *Session) createBucket(bucket string) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}
	// us-east-1 is the S3 default region and rejects an explicit location constraint.
	if s.region != "us-east-1" {
		input.CreateBucketConfiguration = &s3.CreateBucketConfiguration{
			LocationConstraint: aws.String(s.region),
		}
	}
	if _, err := s.s3.CreateBucket(input); err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeBucketAlreadyOwnedByYou {
			return nil
		}
		return errors.Wrapf(err, "cannot create default bucket %s", bucket)
	}
	s.syslog.Infof("created default bucket %s", bucket)
	return nil
}
