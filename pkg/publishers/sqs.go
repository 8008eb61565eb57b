package publishers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type sqsPublisher struct {
	id       string
	queueURL string
	fifo     bool
	client   sqsClient
	log      Logger
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.Credentials)
	if err != nil {
		return nil, err
	}
	return newSQSPublisherWithClient(cfg.ID, cfg.SQS.QueueURL, sqs.NewFromConfig(awsCfg), log), nil
}

func newSQSPublisherWithClient(id, queueURL string, client sqsClient, log Logger) *sqsPublisher {
	return &sqsPublisher{
		id:       id,
		queueURL: queueURL,
		fifo:     strings.HasSuffix(queueURL, ".fifo"),
		client:   client,
		log:      orDiscard(log),
	}
}

func (s *sqsPublisher) ID() string   { return s.id }
func (s *sqsPublisher) Type() string { return TypeSQS }

// Publish enqueues evt. On FIFO queues changes to one record share a message
// group and the event id deduplicates redeliveries.
func (s *sqsPublisher) Publish(ctx context.Context, evt Event) error {
	body, attrs, err := awsMessage(evt)
	if err != nil {
		return err
	}

	input := &sqs.SendMessageInput{
		QueueUrl:          aws.String(s.queueURL),
		MessageBody:       aws.String(body),
		MessageAttributes: make(map[string]types.MessageAttributeValue, len(attrs)),
	}
	for k, v := range attrs {
		input.MessageAttributes[k] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(v),
		}
	}
	if s.fifo {
		input.MessageGroupId = aws.String(evt.Resource + "/" + evt.ResourceID)
		input.MessageDeduplicationId = aws.String(evt.ID)
	}

	out, err := s.client.SendMessage(ctx, input)
	if err != nil {
		s.log.ErrorObj("sqs publisher send failed", "publisher_sqs_error", map[string]any{
			"publisher_id": s.id,
			"event_id":     evt.ID,
			"error":        err.Error(),
		})
		return fmt.Errorf("send message to sqs: %w", err)
	}
	s.log.DebugObj("sqs publisher delivered event", "publisher_sqs_delivery", map[string]any{
		"publisher_id": s.id,
		"event_id":     evt.ID,
		"message_id":   aws.ToString(out.MessageId),
	})
	return nil
}
