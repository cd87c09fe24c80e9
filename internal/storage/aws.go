package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// datasetPK is the partition holding the dataset history index.
const datasetPK = "DATASET"

// DynamoDBAPI is the subset of the DynamoDB client used here.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// S3API is the subset of the S3 client used here.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// AWSStorage keeps dataset snapshots in S3 and indexes them in DynamoDB.
type AWSStorage struct {
	dynamoDB  DynamoDBAPI
	s3Client  S3API
	tableName string
	bucket    string
	prefix    string
}

// DynamoDBItem represents an item stored in DynamoDB
type DynamoDBItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Data      string `dynamodbav:"Data"`
	Timestamp string `dynamodbav:"Timestamp"`
	TTL       int64  `dynamodbav:"TTL,omitempty"`
}

// NewAWSStorage creates a new AWS storage instance
func NewAWSStorage(ctx context.Context, tableName, bucket, prefix, region, profile string) (*AWSStorage, error) {
	var cfg aws.Config
	var err error

	if profile != "" {
		cfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(region),
			config.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return NewAWSStorageWithClients(dynamodb.NewFromConfig(cfg), s3.NewFromConfig(cfg), tableName, bucket, prefix), nil
}

// NewAWSStorageWithClients wires existing clients.
func NewAWSStorageWithClients(db DynamoDBAPI, s3Client S3API, tableName, bucket, prefix string) *AWSStorage {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &AWSStorage{
		dynamoDB:  db,
		s3Client:  s3Client,
		tableName: tableName,
		bucket:    bucket,
		prefix:    prefix,
	}
}

func (s *AWSStorage) datasetKey(id uuid.UUID) string {
	return s.prefix + id.String() + ".json"
}

// SaveDataset uploads the snapshot, then records it in the history index.
func (s *AWSStorage) SaveDataset(ctx context.Context, ds *Dataset) error {
	if err := s.SaveToS3(ctx, s.datasetKey(ds.ID), ds); err != nil {
		return fmt.Errorf("saving dataset snapshot: %w", err)
	}

	data, err := json.Marshal(ds.Info())
	if err != nil {
		return fmt.Errorf("marshaling dataset info: %w", err)
	}

	item := DynamoDBItem{
		PK:        datasetPK,
		SK:        fmt.Sprintf("%s#%s", ds.LoadedAt.UTC().Format(time.RFC3339Nano), ds.ID),
		Data:      string(data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		TTL:       time.Now().Add(365 * 24 * time.Hour).Unix(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshaling item: %w", err)
	}

	_, err = s.dynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("putting item to DynamoDB: %w", err)
	}
	return nil
}

// ListDatasets returns the newest datasets first.
func (s *AWSStorage) ListDatasets(ctx context.Context, limit int) ([]DatasetInfo, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: datasetPK},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	result, err := s.dynamoDB.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("querying DynamoDB: %w", err)
	}

	infos := make([]DatasetInfo, 0, len(result.Items))
	for _, item := range result.Items {
		var dbItem DynamoDBItem
		if err := attributevalue.UnmarshalMap(item, &dbItem); err != nil {
			continue
		}
		var info DatasetInfo
		if err := json.Unmarshal([]byte(dbItem.Data), &info); err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GetDataset downloads a snapshot.
func (s *AWSStorage) GetDataset(ctx context.Context, id uuid.UUID) (*Dataset, error) {
	var ds Dataset
	if err := s.GetFromS3(ctx, s.datasetKey(id), &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// SaveToS3 saves data to S3
func (s *AWSStorage) SaveToS3(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling data: %w", err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(jsonData),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("putting object to S3: %w", err)
	}

	return nil
}

// GetFromS3 retrieves data from S3
func (s *AWSStorage) GetFromS3(ctx context.Context, key string, target interface{}) error {
	result, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("getting object from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return fmt.Errorf("reading S3 object body: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("unmarshaling S3 data: %w", err)
	}

	return nil
}
