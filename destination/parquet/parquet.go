package parquet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	pqgo "github.com/parquet-go/parquet-go"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/destination"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils"
	"github.com/inletio/inlet/utils/logger"
)

// Parquet writes records as local parquet files, one directory per stream.
type Parquet struct {
	options  *destination.Options
	config   *Config
	stream   types.StreamInterface
	file     *os.File
	writer   *pqgo.GenericWriter[map[string]any]
	filePath string
	records  atomic.Int64
}

func (p *Parquet) GetConfigRef() destination.Config {
	p.config = &Config{}
	return p.config
}

func (p *Parquet) Spec() any {
	return Config{}
}

func (p *Parquet) Type() string {
	return string(types.ParquetDestination)
}

func (p *Parquet) Check(_ context.Context) error {
	if err := os.MkdirAll(p.config.Path, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create path[%s]: %s", p.config.Path, err)
	}

	// verify the path is writable
	probe := filepath.Join(p.config.Path, fmt.Sprintf(".inlet_check_%d", time.Now().UnixNano()))
	if err := os.WriteFile(probe, []byte("check"), 0o644); err != nil {
		return fmt.Errorf("path[%s] is not writable: %s", p.config.Path, err)
	}

	return os.Remove(probe)
}

func (p *Parquet) Setup(stream types.StreamInterface, opts *destination.Options) error {
	p.options = opts
	p.stream = stream

	directory := filepath.Join(p.config.Path, stream.Namespace(), stream.Name())
	if err := os.MkdirAll(directory, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directories[%s]: %s", directory, err)
	}

	p.filePath = filepath.Join(directory, utils.TimestampedFileName(constants.ParquetFileExt))
	file, err := os.Create(p.filePath)
	if err != nil {
		return fmt.Errorf("failed to create file[%s]: %s", p.filePath, err)
	}

	p.file = file
	p.writer = pqgo.NewGenericWriter[map[string]any](file, stream.Schema().ToParquet(), pqgo.Compression(&pqgo.Snappy))
	return nil
}

func (p *Parquet) Write(_ context.Context, record types.RawRecord) error {
	row := make(map[string]any, len(record.Data)+3)
	for column, value := range record.Data {
		row[column] = value
	}
	row[constants.InletID] = record.RecordID
	row[constants.InletTimestamp] = record.EmittedAt
	row[constants.OpType] = record.OperationType

	if _, err := p.writer.Write([]map[string]any{row}); err != nil {
		return fmt.Errorf("failed to write record to parquet file: %s", err)
	}

	p.records.Add(1)
	return nil
}

func (p *Parquet) Close(_ context.Context) error {
	if p.writer == nil {
		return nil
	}

	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %s", err)
	}
	if err := p.file.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file: %s", err)
	}

	// nothing written, drop the empty file
	if p.records.Load() == 0 {
		return os.Remove(p.filePath)
	}

	logger.Infof("Finished writing %d records to file %s", p.records.Load(), p.filePath)
	return nil
}

func init() {
	destination.RegisteredWriters[types.ParquetDestination] = func() destination.Writer {
		return new(Parquet)
	}
}
