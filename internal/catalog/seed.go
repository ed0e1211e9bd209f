// Package catalog loads the initial book set from the embedded dataset, a
// local JSON file, or a JSON object in S3-compatible storage.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"book_catalog/internal/config"
	"book_catalog/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

//go:embed books.json
var builtinBooks []byte

// objectGetter is the part of the S3 client the seeder needs.
type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Hooks overridden in tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	newS3Client          = func(cfg aws.Config, optFns ...func(*s3.Options)) objectGetter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// entry mirrors one value of the ISBN-keyed JSON document.
type entry struct {
	Author  string            `json:"author"`
	Title   string            `json:"title"`
	Reviews map[string]string `json:"reviews"`
}

// Load returns the books described by cfg, sorted by ISBN.
func Load(ctx context.Context, cfg config.CatalogConfig) ([]models.Book, error) {
	switch cfg.Source {
	case "", config.SourceBuiltin:
		return Decode(bytes.NewReader(builtinBooks))
	case config.SourceFile:
		return loadFile(cfg.Path)
	case config.SourceS3:
		return loadS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

// Decode parses an ISBN-keyed JSON object of {author, title, reviews}.
func Decode(r io.Reader) ([]models.Book, error) {
	var raw map[string]entry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	books := make([]models.Book, 0, len(raw))
	for isbn, e := range raw {
		if strings.TrimSpace(isbn) == "" {
			return nil, errors.New("decode catalog: empty isbn key")
		}
		if e.Reviews == nil {
			e.Reviews = map[string]string{}
		}
		books = append(books, models.Book{ISBN: isbn, Title: e.Title, Author: e.Author, Reviews: e.Reviews})
	}
	models.SortBooks(books)
	return books, nil
}

func loadFile(path string) ([]models.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

func loadS3(ctx context.Context, sc config.S3Config) ([]models.Book, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(sc.Region)}
	if sc.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.AccessKey, sc.SecretKey, ""),
		))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3Client(awsCfg, func(o *s3.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.Endpoint)
			o.UsePathStyle = true
		}
	})
	return fetchObject(ctx, client, sc.Bucket, sc.Key)
}

func fetchObject(ctx context.Context, client objectGetter, bucket, key string) ([]models.Book, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	return Decode(out.Body)
}
