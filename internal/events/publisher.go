// Package events announces dataset changes on an SQS queue.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type EventType string

const (
	EventDatasetLoaded EventType = "dataset.loaded"
)

// DatasetLoaded is published after a batch replaced the current dataset.
type DatasetLoaded struct {
	EventType   EventType `json:"event_type"`
	DatasetID   string    `json:"dataset_id"`
	BatchID     string    `json:"batch_id"`
	Source      string    `json:"source"`
	Records     int       `json:"records"`
	Files       int       `json:"files"`
	FailedFiles int       `json:"failed_files"`
	LatestDocs  int       `json:"latest_documents"`
	UnderReview int       `json:"under_review"`
	Overdue     int       `json:"overdue"`
	Timestamp   time.Time `json:"timestamp"`
}

// SQSAPI is the subset of the SQS client used by Publisher.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type Publisher struct {
	client   SQSAPI
	queueURL string
	timeout  time.Duration
}

func NewPublisher(client SQSAPI, queueURL string) *Publisher {
	return &Publisher{client: client, queueURL: queueURL, timeout: 5 * time.Second}
}

// NewSQSPublisher builds the SQS client from the default credential chain.
func NewSQSPublisher(ctx context.Context, queueURL, region string) (*Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewPublisher(sqs.NewFromConfig(cfg), queueURL), nil
}

// PublishDatasetLoaded sends evt, waiting at most the publisher timeout.
func (p *Publisher) PublishDatasetLoaded(ctx context.Context, evt DatasetLoaded) error {
	if evt.EventType == "" {
		evt.EventType = EventDatasetLoaded
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal dataset event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(evt.EventType)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("publish to SQS: %w", err)
	}
	return nil
}
