package s3

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	pqgo "github.com/parquet-go/parquet-go"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/destination"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils"
	"github.com/inletio/inlet/utils/logger"
)

// S3 stages records in a local parquet file and uploads it on Close.
type S3 struct {
	options             *destination.Options
	config              *Config
	stream              types.StreamInterface
	client              *awss3.Client
	file                *os.File
	writer              *pqgo.GenericWriter[map[string]any]
	fileName            string
	tempFilePath        string
	destinationFilePath string
	records             atomic.Int64
}

func (s *S3) GetConfigRef() destination.Config {
	s.config = &Config{}
	return s.config
}

func (s *S3) Spec() any {
	return Config{}
}

func (s *S3) Type() string {
	return string(types.S3Destination)
}

func (s *S3) initClient(ctx context.Context) error {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s.config.Region),
	}
	if s.config.AccessKey != "" && s.config.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.config.AccessKey, s.config.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %s", err)
	}

	s.client = awss3.NewFromConfig(cfg)
	return nil
}

func (s *S3) Check(ctx context.Context) error {
	if err := s.initClient(ctx); err != nil {
		return err
	}

	_, err := s.client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(s.config.Bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to access bucket[%s]: %s", s.config.Bucket, err)
	}

	return nil
}

func (s *S3) Setup(stream types.StreamInterface, opts *destination.Options) error {
	s.options = opts
	s.stream = stream
	s.fileName = utils.TimestampedFileName(constants.ParquetFileExt)
	s.destinationFilePath = filepath.Join(s.config.Prefix, stream.Namespace(), stream.Name(), s.fileName)
	s.tempFilePath = filepath.Join(os.TempDir(), s.fileName)

	if s.client == nil {
		if err := s.initClient(context.Background()); err != nil {
			return err
		}
	}

	file, err := os.Create(s.tempFilePath)
	if err != nil {
		return fmt.Errorf("failed to create temp file[%s]: %s", s.tempFilePath, err)
	}

	s.file = file
	s.writer = pqgo.NewGenericWriter[map[string]any](file, stream.Schema().ToParquet(), pqgo.Compression(&pqgo.Snappy))
	return nil
}

func (s *S3) Write(_ context.Context, record types.RawRecord) error {
	row := make(map[string]any, len(record.Data)+3)
	for column, value := range record.Data {
		row[column] = value
	}
	row[constants.InletID] = record.RecordID
	row[constants.InletTimestamp] = record.EmittedAt
	row[constants.OpType] = record.OperationType

	if _, err := s.writer.Write([]map[string]any{row}); err != nil {
		return fmt.Errorf("failed to write record to staging file: %s", err)
	}

	s.records.Add(1)
	return nil
}

func (s *S3) Close(ctx context.Context) error {
	if s.writer == nil {
		return nil
	}
	defer os.Remove(s.tempFilePath)

	if err := s.writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %s", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close staging file: %s", err)
	}

	if s.records.Load() == 0 {
		return nil
	}

	file, err := os.Open(s.tempFilePath)
	if err != nil {
		return fmt.Errorf("failed to reopen staging file: %s", err)
	}
	defer file.Close()

	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(s.destinationFilePath),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to s3[%s/%s]: %s", s.config.Bucket, s.destinationFilePath, err)
	}

	logger.Infof("Uploaded %d records to s3://%s/%s", s.records.Load(), s.config.Bucket, s.destinationFilePath)
	return nil
}

func init() {
	destination.RegisteredWriters[types.S3Destination] = func() destination.Writer {
		return new(S3)
	}
}
