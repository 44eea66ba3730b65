package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/campus-oda/oda-rooms/pkg/oda/rooms"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSPublisherPublishSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		sink:     newSink("queue", TypeSQS, nil),
		queueURL: "https://example.com/queue",
		client:   client,
	}

	err := pub.Publish(context.Background(), NewEvent(KindCreated, rooms.Room{ID: "r1"}, "fp"))
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if client.input.MessageGroupId != nil {
		t.Fatalf("standard queues take no message group")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["room_id"]
	if !ok || aws.ToString(attr.StringValue) != "r1" {
		t.Fatalf("room_id attribute missing or wrong: %#v", attr)
	}
	if aws.ToString(attr.DataType) != "String" {
		t.Fatalf("DataType should be String, got %#v", attr.DataType)
	}
	if kind := client.input.MessageAttributes["event_kind"]; aws.ToString(kind.StringValue) != "created" {
		t.Fatalf("event_kind attribute = %#v", kind)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"id":"r1"`) {
		t.Fatalf("MessageBody missing room id: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSPublisherPublishError(t *testing.T) {
	pub := &sqsPublisher{
		sink:     newSink("queue", TypeSQS, nil),
		queueURL: "https://example.com/queue",
		client:   &fakeSQSClient{err: errors.New("boom")},
	}

	if err := pub.Publish(context.Background(), NewEvent(KindUpdated, rooms.Room{ID: "r1"}, "fp")); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSQSPublisherGroupsFIFOByRoom(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		sink:     newSink("queue", TypeSQS, nil),
		queueURL: "https://example.com/rooms.fifo",
		fifo:     true,
		client:   client,
	}

	evt := NewEvent(KindCreated, rooms.Room{ID: "r7", Building: &rooms.Building{ID: "b1"}}, "fp")
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if aws.ToString(client.input.MessageGroupId) != "r7" || aws.ToString(client.input.MessageDeduplicationId) != evt.ID {
		t.Fatalf("fifo ids = %v / %v", aws.ToString(client.input.MessageGroupId), aws.ToString(client.input.MessageDeduplicationId))
	}
	if b := client.input.MessageAttributes["building_id"]; aws.ToString(b.StringValue) != "b1" {
		t.Fatalf("building_id attribute = %#v", b)
	}
}
