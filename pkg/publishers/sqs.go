package publishers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// sqsClient is the part of the SQS API the publisher calls.
type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsPublisher queues room events. Events of one room share a message group
// on FIFO queues so consumers see its changes in order.
type sqsPublisher struct {
	sink
	queueURL string
	fifo     bool
	client   sqsClient
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.Credentials)
	if err != nil {
		return nil, err
	}
	return &sqsPublisher{
		sink:     newSink(cfg.ID, TypeSQS, log),
		queueURL: cfg.SQS.QueueURL,
		fifo:     strings.HasSuffix(cfg.SQS.QueueURL, ".fifo"),
		client:   sqs.NewFromConfig(awsCfg),
	}, nil
}

func (s *sqsPublisher) Publish(ctx context.Context, evt Event) error {
	body, attrs, err := roomMessage(evt)
	if err != nil {
		return s.report(evt, "encode room event", err, nil)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:          aws.String(s.queueURL),
		MessageBody:       aws.String(body),
		MessageAttributes: make(map[string]types.MessageAttributeValue, len(attrs)),
	}
	for k, v := range attrs {
		input.MessageAttributes[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: v}
	}
	if s.fifo {
		input.MessageGroupId = aws.String(evt.Room.ID)
		input.MessageDeduplicationId = aws.String(evt.ID)
	}

	out, err := s.client.SendMessage(ctx, input)
	if err != nil {
		return s.report(evt, "send message to sqs", err, nil)
	}
	return s.report(evt, "", nil, map[string]any{"message_id": aws.ToString(out.MessageId)})
}
