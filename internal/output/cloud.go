package output

import (
	"context"
	"fmt"
	"path"

	"github.com/chrisdamba/nutriparse/internal/cloudwriter"
	"github.com/chrisdamba/nutriparse/internal/models"
)

// CloudJSONOutput uploads each plan as <prefix>/<id>.json.
type CloudJSONOutput struct {
	factory cloudwriter.CloudWriterFactory
	bucket  string
	prefix  string
}

func NewCloudJSONOutput(factory cloudwriter.CloudWriterFactory, bucket, prefix string) *CloudJSONOutput {
	return &CloudJSONOutput{factory: factory, bucket: bucket, prefix: prefix}
}

func (c *CloudJSONOutput) ObjectPath(rec *models.StoredPlan) string {
	return path.Join(c.prefix, rec.ID+".json")
}

func (c *CloudJSONOutput) WritePlan(ctx context.Context, rec *models.StoredPlan) error {
	data, err := MarshalPlan(rec.Plan)
	if err != nil {
		return err
	}
	w, err := c.factory.NewWriter(ctx, c.bucket, c.ObjectPath(rec), "application/json")
	if err != nil {
		return fmt.Errorf("failed to create cloud writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (c *CloudJSONOutput) Close() error { return nil }
