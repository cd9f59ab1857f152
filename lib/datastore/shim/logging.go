package shim

import (
	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/lni/dragonboat/v4/logger"
)

// LoggingDatastore logs every call at info level and its outcome at debug
// level before handing the result back unchanged.
type LoggingDatastore struct {
	child datastore.IDatastore
	log   logger.ILogger
}

// NewLogging creates a LoggingDatastore. A nil logger uses the "shim" logger.
func NewLogging(child datastore.IDatastore, l logger.ILogger) *LoggingDatastore {
	if l == nil {
		l = logger.GetLogger("shim")
	}
	return &LoggingDatastore{child: child, log: l}
}

// Close closes the child.
func (d *LoggingDatastore) Close() error {
	d.log.Infof("close")
	return datastore.Close(d.child)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see datastore.IDatastore)
// --------------------------------------------------------------------------

func (d *LoggingDatastore) Get(k key.Key) (any, bool, error) {
	d.log.Infof("get %s", k)
	value, loaded, err := d.child.Get(k)
	if err != nil {
		d.log.Warningf("get %s failed: %v", k, err)
	} else {
		d.log.Debugf("get %s: loaded=%t value=%v", k, loaded, value)
	}
	return value, loaded, err
}

func (d *LoggingDatastore) Put(k key.Key, value any) error {
	d.log.Infof("put %s", k)
	err := d.child.Put(k, value)
	if err != nil {
		d.log.Warningf("put %s failed: %v", k, err)
	} else {
		d.log.Debugf("put %s: %v", k, value)
	}
	return err
}

func (d *LoggingDatastore) Delete(k key.Key) error {
	d.log.Infof("delete %s", k)
	err := d.child.Delete(k)
	if err != nil {
		d.log.Warningf("delete %s failed: %v", k, err)
	}
	return err
}

func (d *LoggingDatastore) Contains(k key.Key) (bool, error) {
	d.log.Infof("contains %s", k)
	ok, err := d.child.Contains(k)
	if err != nil {
		d.log.Warningf("contains %s failed: %v", k, err)
	} else {
		d.log.Debugf("contains %s: %t", k, ok)
	}
	return ok, err
}

func (d *LoggingDatastore) Query(q *query.Query) (*query.Cursor, error) {
	d.log.Infof("query %s", q)
	c, err := d.child.Query(q)
	if err != nil {
		d.log.Warningf("query %s failed: %v", q, err)
	}
	return c, err
}
