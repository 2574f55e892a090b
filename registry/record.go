package registry

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/JiscSD/openenum/openenum"
	"github.com/JiscSD/openenum/schema"
)

// Record is the stored form of a descriptor.
type Record struct {
	Name    string        `dynamodbav:"name" json:"name"`
	Syntax  string        `dynamodbav:"syntax" json:"syntax"`
	Values  []ValueRecord `dynamodbav:"values" json:"values"`
	Source  string        `dynamodbav:"source" json:"source,omitempty"`
	Updated time.Time     `dynamodbav:"updated" json:"updated"`
}

// ValueRecord is a declared value inside a Record.
type ValueRecord struct {
	Name   string `dynamodbav:"name" json:"name"`
	Number int32  `dynamodbav:"number" json:"number"`
}

// Store persists records.
type Store interface {
	Put(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
}

// NewRecord captures d.
func NewRecord(d *openenum.Descriptor, source string, updated time.Time) Record {
	rec := Record{
		Name:    d.FullName(),
		Syntax:  d.Syntax().String(),
		Source:  source,
		Updated: updated.UTC(),
	}
	for _, v := range d.Values() {
		rec.Values = append(rec.Values, ValueRecord{Name: v.Name, Number: int32(v.Number)})
	}
	return rec
}

// Descriptor rebuilds the runtime descriptor.
func (r Record) Descriptor() (*openenum.Descriptor, error) {
	syntax, err := openenum.ParseSyntax(r.Syntax)
	if err != nil {
		return nil, errors.Wrapf(err, "record %s", r.Name)
	}
	values := make([]openenum.ValueDescriptor, len(r.Values))
	for i, v := range r.Values {
		values[i] = openenum.ValueDescriptor{Name: v.Name, Number: openenum.Number(v.Number)}
	}
	return openenum.NewDescriptor(r.Name, syntax, values)
}

// RecordsFromFile returns one record per enum of f.
func RecordsFromFile(f *schema.File, updated time.Time) ([]Record, error) {
	ds, err := f.Descriptors()
	if err != nil {
		return nil, err
	}
	recs := make([]Record, len(ds))
	for i, d := range ds {
		recs[i] = NewRecord(d, f.Path, updated)
	}
	return recs, nil
}
