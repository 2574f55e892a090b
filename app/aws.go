package app

import (
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/sirupsen/logrus"

	"github.com/JiscSD/openenum/s3"
)

type logrusProxy struct {
	logger logrus.FieldLogger
}

func (l logrusProxy) Log(args ...interface{}) {
	l.logger.WithField("client", "aws").Debug(args...)
}

// awsSession returns a session using NewSessionWithOptions meaning that it
// relies on the SDK defaults but also the user config files and environment.
//
// AWS_S3_FORCE_PATH_STYLE is not an SDK setting. It is read here so local S3
// emulators can be used without more configuration surface.
func awsSession(logger logrus.FieldLogger, profile, endpoint string) (*session.Session, error) {
	options := session.Options{}
	if profile != "" {
		options.Profile = profile
	}
	if endpoint != "" {
		options.Config.WithEndpoint(endpoint)
	}
	if res, ok := os.LookupEnv("AWS_S3_FORCE_PATH_STYLE"); ok {
		enabled, _ := strconv.ParseBool(res)
		options.Config.WithS3ForcePathStyle(enabled)
	}
	if logrus.GetLevel() == logrus.DebugLevel {
		options.Config.WithCredentialsChainVerboseErrors(true)
	}
	options.Config.WithLogger(logrusProxy{logger: logger})
	return session.NewSessionWithOptions(options)
}

func newObjectStorage(logger logrus.FieldLogger, config *Config) (s3.ObjectStorage, error) {
	sess, err := awsSession(logger, config.AWS.S3Profile, config.AWS.S3Endpoint)
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

func newDynamoDB(logger logrus.FieldLogger, config *Config) (*dynamodb.DynamoDB, error) {
	sess, err := awsSession(logger, config.AWS.DynamoDBProfile, config.AWS.DynamoDBEndpoint)
	if err != nil {
		return nil, err
	}
	return dynamodb.New(sess), nil
}

func newSNS(logger logrus.FieldLogger, config *Config) (*sns.SNS, error) {
	sess, err := awsSession(logger, config.AWS.SNSProfile, config.AWS.SNSEndpoint)
	if err != nil {
		return nil, err
	}
	return sns.New(sess), nil
}

func newSQS(logger logrus.FieldLogger, config *Config) (*sqs.SQS, error) {
	sess, err := awsSession(logger, config.AWS.SQSProfile, config.AWS.SQSEndpoint)
	if err != nil {
		return nil, err
	}
	return sqs.New(sess), nil
}
