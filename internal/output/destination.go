package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/lucsky/cuid"
)

// PlanDestination receives every parsed plan. Implementations own whatever
// resources they open and release them in Close.
type PlanDestination interface {
	WritePlan(ctx context.Context, rec *models.StoredPlan) error
	Close() error
}

// NewRecord wraps a freshly parsed plan with an id and the source it came from.
func NewRecord(plan *models.Plan, source string) *models.StoredPlan {
	return &models.StoredPlan{
		ID:       cuid.New(),
		Source:   source,
		StoredAt: time.Now().UTC(),
		Plan:     plan,
	}
}

// EncodePlan writes plan as two-space indented JSON. Non-ASCII and HTML
// characters are written as they are.
func EncodePlan(w io.Writer, plan *models.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(plan)
}

func MarshalPlan(plan *models.Plan) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePlan(&buf, plan); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stem names per-document output files after the source document.
func stem(rec *models.StoredPlan) string {
	if rec.Source == "" {
		return rec.ID
	}
	base := filepath.Base(rec.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// fileNamer hands out per-document file names inside one folder or prefix. A
// document whose stem is already taken by another source (plan.pdf, then
// plan.txt) keeps its extension in the name: plan.txt.json.
type fileNamer struct {
	mu   sync.Mutex
	used map[string]string
}

func (n *fileNamer) name(rec *models.StoredPlan, ext string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.used == nil {
		n.used = make(map[string]string)
	}

	name := stem(rec) + ext
	if owner, taken := n.used[name]; taken && owner != rec.Source {
		alt := filepath.Base(rec.Source) + ext
		log.Printf("%s and %s share the output name %s, writing %s", owner, rec.Source, name, alt)
		name = alt
	}
	n.used[name] = rec.Source
	return name
}

// MultiOutput fans a plan out to several destinations. Every destination is
// attempted; their errors are joined.
type MultiOutput struct {
	destinations []PlanDestination
}

func NewMultiOutput(destinations ...PlanDestination) *MultiOutput {
	return &MultiOutput{destinations: destinations}
}

func (m *MultiOutput) Add(d PlanDestination) {
	m.destinations = append(m.destinations, d)
}

func (m *MultiOutput) Len() int { return len(m.destinations) }

func (m *MultiOutput) WritePlan(ctx context.Context, rec *models.StoredPlan) error {
	var errs []error
	for _, d := range m.destinations {
		if err := d.WritePlan(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiOutput) Close() error {
	var errs []error
	for _, d := range m.destinations {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
