// Command catalog-gen writes the built-in product catalogue as a gzipped CSV
// file, optionally uploading it to S3 for the s3 catalog source.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"kiosk-checkout/internal/catalog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func main() {
	out := flag.String("out", "data/catalog.csv.gz", "output file")
	bucket := flag.String("bucket", "", "S3 bucket to upload to (optional)")
	key := flag.String("key", "catalog/catalog.csv.gz", "S3 object key")
	region := flag.String("region", "ap-northeast-2", "AWS region")
	flag.Parse()

	products := catalog.DefaultProducts()

	var buf bytes.Buffer
	if err := catalog.EncodeProducts(&buf, products); err != nil {
		log.Fatalf("Failed to encode catalog: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	fmt.Printf("Created %s with %d products\n", *out, len(products))

	if *bucket == "" {
		return
	}

	if err := upload(context.Background(), *region, *bucket, *key, buf.Bytes()); err != nil {
		log.Fatalf("Failed to upload catalog: %v", err)
	}
	fmt.Printf("Uploaded s3://%s/%s\n", *bucket, *key)
}

func upload(ctx context.Context, region, bucket, key string, body []byte) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/gzip"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}
