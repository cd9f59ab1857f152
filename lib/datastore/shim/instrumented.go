package shim

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/VictoriaMetrics/metrics"
)

// Operation names used as the "op" label.
const (
	OpGet      = "get"
	OpPut      = "put"
	OpDelete   = "delete"
	OpContains = "contains"
	OpQuery    = "query"
)

// InstrumentedDatastore records call counts, error counts and latencies per
// operation in the global VictoriaMetrics set:
//
//	dds_datastore_calls_total{store="fs",op="get"}
//	dds_datastore_errors_total{store="fs",op="get"}
//	dds_datastore_duration_seconds{store="fs",op="get"}
//
// Use metrics.WritePrometheus to export them.
type InstrumentedDatastore struct {
	child datastore.IDatastore
	name  string
}

// NewInstrumented creates an InstrumentedDatastore labelled with name.
func NewInstrumented(child datastore.IDatastore, name string) *InstrumentedDatastore {
	return &InstrumentedDatastore{child: child, name: name}
}

func (d *InstrumentedDatastore) labels(op string) string {
	return fmt.Sprintf("{store=%s,op=%q}", strconv.Quote(d.name), op)
}

// Calls returns the counter of calls to op.
func (d *InstrumentedDatastore) Calls(op string) *metrics.Counter {
	return metrics.GetOrCreateCounter("dds_datastore_calls_total" + d.labels(op))
}

// Errors returns the counter of failed calls to op.
func (d *InstrumentedDatastore) Errors(op string) *metrics.Counter {
	return metrics.GetOrCreateCounter("dds_datastore_errors_total" + d.labels(op))
}

func (d *InstrumentedDatastore) observe(op string, start time.Time, err error) {
	d.Calls(op).Inc()
	if err != nil {
		d.Errors(op).Inc()
	}
	metrics.GetOrCreateSummary("dds_datastore_duration_seconds" + d.labels(op)).UpdateDuration(start)
}

// Close closes the child.
func (d *InstrumentedDatastore) Close() error {
	return datastore.Close(d.child)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

func (d *InstrumentedDatastore) Get(k key.Key) (any, bool, error) {
	start := time.Now()
	value, loaded, err := d.child.Get(k)
	d.observe(OpGet, start, err)
	return value, loaded, err
}

func (d *InstrumentedDatastore) Put(k key.Key, value any) error {
	start := time.Now()
	err := d.child.Put(k, value)
	d.observe(OpPut, start, err)
	return err
}

func (d *InstrumentedDatastore) Delete(k key.Key) error {
	start := time.Now()
	err := d.child.Delete(k)
	d.observe(OpDelete, start, err)
	return err
}

func (d *InstrumentedDatastore) Contains(k key.Key) (bool, error) {
	start := time.Now()
	ok, err := d.child.Contains(k)
	d.observe(OpContains, start, err)
	return ok, err
}

func (d *InstrumentedDatastore) Query(q *query.Query) (*query.Cursor, error) {
	start := time.Now()
	c, err := d.child.Query(q)
	d.observe(OpQuery, start, err)
	return c, err
}
