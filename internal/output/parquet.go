package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/chrisdamba/nutriparse/internal/cloudwriter"
	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetOutput writes one parquet file per plan with a row per option. With a
// cloud writer factory the file is uploaded instead of written locally.
type ParquetOutput struct {
	path               string
	folder             string
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
	cloudPrefix        string
	names              fileNamer
}

type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewParquetOutput(path, folder string) *ParquetOutput {
	return &ParquetOutput{path: path, folder: folder}
}

func NewCloudParquetOutput(factory cloudwriter.CloudWriterFactory, bucket, prefix string) *ParquetOutput {
	return &ParquetOutput{
		cloudWriterFactory: factory,
		cloudBucketName:    bucket,
		cloudPrefix:        prefix,
	}
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	// the object is created on upload, so the current instance is already the file
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (n int, err error) {
	n, err = c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}

func (p *ParquetOutput) createFile(ctx context.Context, rec *models.StoredPlan) (source.ParquetFile, error) {
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.cloudPrefix, p.names.name(rec, ".parquet"))
		cloudWriter, err := p.cloudWriterFactory.NewWriter(ctx, p.cloudBucketName, objectPath, "application/vnd.apache.parquet")
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		return NewCloudParquetFile(cloudWriter), nil
	}

	filePath := p.path
	if filePath == "" {
		if p.folder == "" {
			return nil, fmt.Errorf("parquet output needs an output path or folder")
		}
		filePath = filepath.Join(p.folder, p.names.name(rec, ".parquet"))
	}
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return nil, err
	}
	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}
	return fw, nil
}

func (p *ParquetOutput) WritePlan(ctx context.Context, rec *models.StoredPlan) error {
	fw, err := p.createFile(ctx, rec)
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriter(fw, new(models.OptionRecord), 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rec.Plan.OptionRecords(rec.ID) {
		if err := pw.Write(row); err != nil {
			fw.Close()
			return fmt.Errorf("failed to write option row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return fw.Close()
}

func (p *ParquetOutput) Close() error { return nil }
