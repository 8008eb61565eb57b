package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
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
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSPublisherSendsEvent(t *testing.T) {
	fake := &fakeSQSClient{}
	pub := newSQSPublisherWithClient("q", "https://sqs.local/queue", fake, nil)

	evt := Event{ID: "e1", Resource: "projects", Action: "create", ResourceID: "3"}
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(fake.input.QueueUrl); got != "https://sqs.local/queue" {
		t.Fatalf("unexpected queue url %q", got)
	}
	if got := aws.ToString(fake.input.MessageAttributes["resource"].StringValue); got != "projects" {
		t.Fatalf("unexpected resource attribute %q", got)
	}
	if fake.input.MessageGroupId != nil {
		t.Fatalf("standard queue must not set a message group")
	}

	var decoded Event
	if err := json.Unmarshal([]byte(aws.ToString(fake.input.MessageBody)), &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.ID != "e1" || decoded.Action != "create" {
		t.Fatalf("unexpected body %#v", decoded)
	}
}

func TestSQSPublisherFIFOGroupsByRecord(t *testing.T) {
	fake := &fakeSQSClient{}
	pub := newSQSPublisherWithClient("q", "https://sqs.local/changes.fifo", fake, nil)

	if err := pub.Publish(context.Background(), Event{ID: "e9", Resource: "projects", ResourceID: "12"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(fake.input.MessageGroupId); got != "projects/12" {
		t.Fatalf("unexpected message group %q", got)
	}
	if got := aws.ToString(fake.input.MessageDeduplicationId); got != "e9" {
		t.Fatalf("unexpected dedup id %q", got)
	}
}

func TestSQSPublisherWrapsSendError(t *testing.T) {
	sendErr := errors.New("throttled")
	pub := newSQSPublisherWithClient("q", "u", &fakeSQSClient{err: sendErr}, nil)

	if err := pub.Publish(context.Background(), Event{ID: "e1"}); !errors.Is(err, sendErr) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

func TestNewSQSPublisherWithStaticCredentials(t *testing.T) {
	pub, err := newSQSPublisher(context.Background(), PublisherConfig{
		ID:   "q",
		Type: TypeSQS,
		SQS: &SQSPublisherConfig{
			QueueURL:    "https://sqs.local/queue",
			Region:      "us-east-1",
			Credentials: &AWSCredentials{AccessKeyID: "AKID", SecretAccessKey: "secret"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("newSQSPublisher: %v", err)
	}
	if pub.Type() != TypeSQS || pub.ID() != "q" {
		t.Fatalf("unexpected publisher identity %s/%s", pub.Type(), pub.ID())
	}
}
