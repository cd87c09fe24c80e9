package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Item is one file offered by a Source.
type Item struct {
	Name string
	Size int64
	open func(ctx context.Context) (io.ReadCloser, error)
}

// Open returns the file content.
func (i Item) Open(ctx context.Context) (io.ReadCloser, error) {
	return i.open(ctx)
}

// Source lists the files of one ingest batch in processing order.
type Source interface {
	Items(ctx context.Context) ([]Item, error)
}

// Upload is a file received over HTTP.
type Upload struct {
	Name string
	Data []byte
}

// UploadSource serves uploaded files in upload order.
type UploadSource []Upload

// Items implements Source.
func (u UploadSource) Items(ctx context.Context) ([]Item, error) {
	items := make([]Item, 0, len(u))
	for _, up := range u {
		data := up.Data
		items = append(items, Item{
			Name: up.Name,
			Size: int64(len(data)),
			open: func(context.Context) (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(data)), nil
			},
		})
	}
	return items, nil
}

// DirSource reads local files. Directories are walked recursively and only
// files with a supported extension are taken from them; explicitly named
// files are always offered. Files are processed in argument order, directory
// content in lexical order.
type DirSource struct {
	Paths []string
}

// NewDirSource creates a source over local files and directories.
func NewDirSource(paths ...string) *DirSource {
	return &DirSource{Paths: paths}
}

// Items implements Source.
func (d *DirSource) Items(ctx context.Context) ([]Item, error) {
	items := make([]Item, 0)
	for _, p := range d.Paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			items = append(items, localItem(p, filepath.Base(p), info.Size()))
			continue
		}

		var found []Item
		err = filepath.WalkDir(p, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				return nil
			}
			if _, ferr := DetectFormat(path); ferr != nil {
				return nil
			}
			fi, err := entry.Info()
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(p, path)
			if err != nil {
				rel = entry.Name()
			}
			found = append(found, localItem(path, filepath.ToSlash(rel), fi.Size()))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		sort.SliceStable(found, func(i, j int) bool { return found[i].Name < found[j].Name })
		items = append(items, found...)
	}
	return items, nil
}

func localItem(path, name string, size int64) Item {
	return Item{
		Name: name,
		Size: size,
		open: func(context.Context) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads every supported object under a bucket prefix.
type S3Source struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Source builds an S3 client from the default credential chain.
func NewS3Source(ctx context.Context, bucket, prefix, region, profile string) (*S3Source, error) {
	var cfg aws.Config
	var err error
	if profile != "" {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewS3SourceWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewS3SourceWithClient wraps an existing client.
func NewS3SourceWithClient(client S3API, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// WithPrefix returns a copy listing a different prefix.
func (s *S3Source) WithPrefix(prefix string) *S3Source {
	c := *s
	c.prefix = prefix
	return &c
}

// Items implements Source. Objects come in key order.
func (s *S3Source) Items(ctx context.Context) ([]Item, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	items := make([]Item, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if obj.Size == nil || *obj.Size == 0 {
				continue
			}
			if _, err := DetectFormat(key); err != nil {
				continue
			}
			items = append(items, Item{
				Name: key,
				Size: *obj.Size,
				open: func(ctx context.Context) (io.ReadCloser, error) {
					out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
						Bucket: aws.String(s.bucket),
						Key:    aws.String(key),
					})
					if err != nil {
						return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
					}
					return out.Body, nil
				},
			})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}
