// Package broker announces registry changes on SNS and consumes them from
// SQS.
package broker

import (
	"context"
	"encoding/json"
	"runtime/debug"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/JiscSD/openenum/broker/message"
)

const (
	// maxNumberOfMessages is the number of messages that we want to receive
	// from SQS incoming batches.
	maxNumberOfMessages = 10

	// waitTimeSeconds is the longest we're waiting on each SQS receive poll.
	waitTimeSeconds = 1
)

// Notifier publishes events to an SNS topic.
type Notifier struct {
	client   snsiface.SNSAPI
	topicARN string
}

// NewNotifier returns a Notifier for the given topic.
func NewNotifier(client snsiface.SNSAPI, topicARN string) *Notifier {
	return &Notifier{client: client, topicARN: topicARN}
}

// Notify puts the event into the topic.
func (n *Notifier) Notify(ctx context.Context, e *message.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return errors.Wrapf(err, "event %s could not be encoded", e.ID)
	}
	_, err = n.client.PublishWithContext(ctx, &sns.PublishInput{
		Message:  aws.String(string(payload)),
		TopicArn: aws.String(n.topicARN),
	})
	return errors.Wrapf(err, "event %s could not be published", e.ID)
}

// Listener receives events from an SQS queue and dispatches them to the
// subscribed handlers.
//
// Messages are deleted from SQS as soon as they're processed, including
// cases where the event could not be decoded, its type is unrecognized or the
// handler failed. Registry events are idempotent hints: the registry reloads
// on its own schedule, so a lost event only delays an update.
type Listener struct {
	logger           logrus.FieldLogger
	sqsClient        sqsiface.SQSAPI
	queueURL         string
	ctx              context.Context
	cancel           context.CancelFunc
	stop             chan chan struct{}
	incomingMessages prometheus.Counter
	subscriptions
}

// NewListener returns a usable Listener. Call Run to start receiving.
func NewListener(logger logrus.FieldLogger, sqsClient sqsiface.SQSAPI, queueURL string, incomingMessages prometheus.Counter) *Listener {
	l := &Listener{
		logger:           logger,
		sqsClient:        sqsClient,
		queueURL:         queueURL,
		stop:             make(chan chan struct{}),
		incomingMessages: incomingMessages,
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.subscriptions.s = make(map[message.EventType]Handler)
	return l
}

// Run blocks receiving messages until Stop is called.
func (l *Listener) Run() {
	for {
		select {
		case ch := <-l.stop:
			l.cancel()
			close(ch)
			return
		default:
			out, err := l.sqsClient.ReceiveMessageWithContext(l.ctx, &sqs.ReceiveMessageInput{
				QueueUrl:            aws.String(l.queueURL),
				MaxNumberOfMessages: aws.Int64(maxNumberOfMessages),
				WaitTimeSeconds:     aws.Int64(waitTimeSeconds),
			})
			if err != nil {
				l.logger.Errorf("Error receiving a message from SQS: %s", err)
				time.Sleep(1 * time.Second)
				continue
			}
			for _, m := range out.Messages {
				l.process(m)
				l.deleteMessage(m.ReceiptHandle)
			}
		}
	}
}

// process decodes a message and runs its handler in panic recovery mode.
func (l *Listener) process(m *sqs.Message) {
	if l.incomingMessages != nil {
		l.incomingMessages.Inc()
	}
	e, err := message.Decode([]byte(aws.StringValue(m.Body)))
	if err != nil {
		l.logger.WithField("messageID", aws.StringValue(m.MessageId)).Warn("Invalid event: ", err)
		return
	}
	logger := l.logger.WithFields(logrus.Fields{
		"eventID": e.ID.String(),
		"type":    e.Type.String(),
		"enum":    e.Enum,
	})
	if e.Type == message.EventType_UNRECOGNIZED {
		logger.Info("Ignoring event of a type unknown to this build")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("handler panic! %s %s", r, debug.Stack())
			logger.Error("Handler failure: ", err)
		}
	}()
	if err = l.handleEvent(e); err != nil {
		logger.Error("Handler failure: ", err)
		return
	}
	logger.Debug("Event processed")
}

// deleteMessage does best effort to delete a message from SQS.
func (l *Listener) deleteMessage(receiptHandle *string) {
	_, err := l.sqsClient.DeleteMessageWithContext(l.ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(l.queueURL),
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		l.logger.Error("Message could not be removed from SQS: ", err)
	}
}

// Stop blocks until the listener terminates.
func (l *Listener) Stop() {
	ch := make(chan struct{})
	l.stop <- ch
	<-ch
}
