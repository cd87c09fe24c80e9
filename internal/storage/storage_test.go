package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/correspondence-monitor/internal/config"
	"github.com/ignite/correspondence-monitor/internal/ingest"
	"github.com/ignite/correspondence-monitor/internal/review"
)

func newTestStorage(t *testing.T, dir string) *Storage {
	cfg := config.StorageConfig{
		Type:      "local",
		LocalPath: dir,
	}

	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func testDataset(loadedAt time.Time, numbers ...string) *Dataset {
	records := make([]review.Record, 0, len(numbers))
	for i, n := range numbers {
		issued := loadedAt.Add(-time.Duration(i+1) * time.Hour)
		records = append(records, review.Record{
			ID:             n,
			DocumentNumber: n,
			Bucket:         review.BucketUnderReview,
			DateIssued:     &issued,
			BestDate:       &issued,
		})
	}
	return &Dataset{
		ID:       uuid.New(),
		LoadedAt: loadedAt,
		Files:    []ingest.FileResult{{File: "register.csv", Status: ingest.StatusCompleted, Records: len(records)}},
		Records:  records,
	}
}

func TestCurrent_Empty(t *testing.T) {
	s := newTestStorage(t, t.TempDir())

	_, err := s.Current()
	assert.ErrorIs(t, err, ErrNoDataset)
	assert.Empty(t, s.History(0))
}

func TestReplace_LocalRestore(t *testing.T) {
	dir := t.TempDir()
	s := newTestStorage(t, dir)
	ctx := context.Background()

	first := testDataset(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), "ABC-001")
	second := testDataset(time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), "ABC-001", "ABC-002")

	require.NoError(t, s.Replace(ctx, first))
	require.NoError(t, s.Replace(ctx, second))

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, second.ID, cur.ID)

	history := s.History(0)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, 2, history[0].RecordCount)
	assert.Len(t, s.History(1), 1)

	reopened := newTestStorage(t, dir)
	restored, err := reopened.Current()
	require.NoError(t, err)
	assert.Equal(t, second.ID, restored.ID)
	require.Len(t, restored.Records, 2)
	assert.Equal(t, "ABC-002", restored.Records[1].DocumentNumber)
	assert.True(t, restored.Records[0].DateIssued.Equal(*second.Records[0].DateIssued))
	assert.Len(t, reopened.History(0), 2)
}

func TestGetCacheStats(t *testing.T) {
	s := newTestStorage(t, t.TempDir())
	stats := s.GetCacheStats()
	assert.Equal(t, false, stats["dataset_loaded"])
	assert.NotContains(t, stats, "records")

	ds := testDataset(time.Now(), "ABC-001")
	require.NoError(t, s.Replace(context.Background(), ds))

	stats = s.GetCacheStats()
	assert.Equal(t, true, stats["dataset_loaded"])
	assert.Equal(t, 1, stats["records"])
	assert.Equal(t, 1, stats["history_count"])
	assert.Equal(t, ds.ID.String(), stats["dataset_id"])
}

func TestReplace_Memory(t *testing.T) {
	s, err := New(config.StorageConfig{Type: "memory"})
	require.NoError(t, err)

	ds := &Dataset{ID: uuid.New(), LoadedAt: time.Now()}
	require.NoError(t, s.Replace(context.Background(), ds))

	cur, err := s.Current()
	require.NoError(t, err)
	assert.NotNil(t, cur.Records)
}

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

type fakeDynamo struct {
	items []map[string]types.AttributeValue
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.items = append(f.items, in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	type keyed struct {
		sk   string
		item map[string]types.AttributeValue
	}
	var rows []keyed
	for _, item := range f.items {
		var dbItem DynamoDBItem
		if err := attributevalue.UnmarshalMap(item, &dbItem); err != nil {
			return nil, err
		}
		if dbItem.PK == datasetPK {
			rows = append(rows, keyed{sk: dbItem.SK, item: item})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].sk > rows[j].sk })
	if in.Limit != nil && int(*in.Limit) < len(rows) {
		rows = rows[:*in.Limit]
	}
	out := &dynamodb.QueryOutput{}
	for _, r := range rows {
		out.Items = append(out.Items, r.item)
	}
	return out, nil
}

func TestAWSStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s3c := &fakeS3{objects: map[string][]byte{}}
	db := &fakeDynamo{}
	awsStorage := NewAWSStorageWithClients(db, s3c, "review-datasets", "bucket", "datasets")

	cfg := config.StorageConfig{Type: "aws"}
	s := NewWithAWS(ctx, cfg, awsStorage)
	_, err := s.Current()
	assert.ErrorIs(t, err, ErrNoDataset)

	older := testDataset(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), "ABC-001")
	newer := testDataset(time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC), "ABC-001", "ABC-009")
	require.NoError(t, s.Replace(ctx, older))
	require.NoError(t, s.Replace(ctx, newer))

	assert.Contains(t, s3c.objects, "datasets/"+newer.ID.String()+".json")
	assert.Len(t, db.items, 2)

	restarted := NewWithAWS(ctx, cfg, awsStorage)
	cur, err := restarted.Current()
	require.NoError(t, err)
	assert.Equal(t, newer.ID, cur.ID)
	assert.Len(t, cur.Records, 2)

	history := restarted.History(0)
	require.Len(t, history, 2)
	assert.Equal(t, newer.ID, history[0].ID)
	assert.Equal(t, older.ID, history[1].ID)
}

func TestAWSStorage_SaveFailureKeepsCurrent(t *testing.T) {
	ctx := context.Background()
	s3c := &fakeS3{objects: map[string][]byte{}}
	awsStorage := NewAWSStorageWithClients(&fakeDynamo{}, s3c, "t", "b", "")
	s := NewWithAWS(ctx, config.StorageConfig{Type: "aws"}, awsStorage)

	first := testDataset(time.Now(), "ABC-001")
	require.NoError(t, s.Replace(ctx, first))

	s3c.putErr = errors.New("access denied")
	err := s.Replace(ctx, testDataset(time.Now(), "ABC-002"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, first.ID, cur.ID)
	assert.Len(t, s.History(0), 1)
}
