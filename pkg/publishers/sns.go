package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsClient is the part of the SNS API the publisher calls.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsPublisher broadcasts room events on a topic.
type snsPublisher struct {
	sink
	topicARN string
	client   snsClient
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.Credentials)
	if err != nil {
		return nil, err
	}
	return &snsPublisher{
		sink:     newSink(cfg.ID, TypeSNS, log),
		topicARN: cfg.SNS.TopicARN,
		client:   sns.NewFromConfig(awsCfg),
	}, nil
}

func (s *snsPublisher) Publish(ctx context.Context, evt Event) error {
	body, attrs, err := roomMessage(evt)
	if err != nil {
		return s.report(evt, "encode room event", err, nil)
	}

	input := &sns.PublishInput{
		TopicArn:          aws.String(s.topicARN),
		Message:           aws.String(body),
		MessageAttributes: make(map[string]types.MessageAttributeValue, len(attrs)),
	}
	for k, v := range attrs {
		input.MessageAttributes[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: v}
	}

	out, err := s.client.Publish(ctx, input)
	if err != nil {
		return s.report(evt, "publish to sns", err, nil)
	}
	return s.report(evt, "", nil, map[string]any{"message_id": aws.ToString(out.MessageId)})
}
