package output

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chrisdamba/nutriparse/internal/cloudwriter"
	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/chrisdamba/nutriparse/internal/producers"
	"github.com/chrisdamba/nutriparse/internal/repositories"
)

var ErrNoDestination = errors.New("no output destination configured")

// Target says where the local copy of a plan goes. For JSON, Stdout wins over
// Path and Path over Folder.
type Target struct {
	Path   string
	Folder string
	Stdout io.Writer
}

// Sinks carries already opened collaborators. Nil fields are built from the
// config when the config asks for them.
type Sinks struct {
	CloudWriterFactory cloudwriter.CloudWriterFactory
	Producer           MessageWriter
	Repository         repositories.PlanRepository
}

// NewDestination assembles every sink the config enables behind one MultiOutput.
func NewDestination(ctx context.Context, cfg *models.Config, target Target, sinks Sinks) (*MultiOutput, error) {
	multi := NewMultiOutput()

	local, err := localDestination(cfg.OutputFormat, target)
	if err != nil {
		return nil, err
	}
	if local != nil {
		multi.Add(local)
	}

	if cfg.CloudStorage.BucketName != "" {
		factory := sinks.CloudWriterFactory
		if factory == nil {
			switch cfg.CloudStorage.Provider {
			case "", "s3":
				factory, err = cloudwriter.NewS3WriterFactory(ctx, cfg.CloudStorage.Region)
			default:
				return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
			}
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
		}
		if cfg.OutputFormat == "parquet" {
			multi.Add(NewCloudParquetOutput(factory, cfg.CloudStorage.BucketName, cfg.CloudStorage.Prefix))
		} else {
			multi.Add(NewCloudJSONOutput(factory, cfg.CloudStorage.BucketName, cfg.CloudStorage.Prefix))
		}
	}

	if cfg.KafkaEnabled {
		producer := sinks.Producer
		if producer == nil {
			saramaProducer, err := producers.NewSaramaProducer(cfg)
			if err != nil {
				multi.Close()
				return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
			}
			producer = saramaProducer
		}
		multi.Add(NewKafkaOutput(producer, cfg.KafkaTopic))
	}

	if sinks.Repository != nil {
		multi.Add(NewStoreOutput(sinks.Repository))
	}

	if multi.Len() == 0 {
		return nil, ErrNoDestination
	}
	return multi, nil
}

func localDestination(format string, target Target) (PlanDestination, error) {
	switch format {
	case "", "json":
		switch {
		case target.Stdout != nil:
			return NewConsoleOutput(target.Stdout), nil
		case target.Path != "":
			return NewJSONFileOutput(target.Path), nil
		case target.Folder != "":
			return NewJSONFolderOutput(target.Folder), nil
		}
		return nil, nil
	case "parquet":
		if target.Stdout != nil && target.Path == "" && target.Folder == "" {
			return nil, fmt.Errorf("parquet output needs a file path")
		}
		if target.Path == "" && target.Folder == "" {
			return nil, nil
		}
		return NewParquetOutput(target.Path, target.Folder), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
