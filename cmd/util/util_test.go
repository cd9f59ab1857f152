package util

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, float64(42), ParseValue("42"))
	assert.Equal(t, true, ParseValue("true"))
	assert.Equal(t, map[string]any{"a": "b"}, ParseValue(`{"a":"b"}`))
	assert.Equal(t, "hello world", ParseValue("hello world"))
	assert.Equal(t, "", ParseValue(""))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("age,>=,18")
	require.NoError(t, err)
	assert.Equal(t, "age", f.Field)
	assert.Equal(t, query.Op(">="), f.Op)
	assert.Equal(t, float64(18), f.Value)

	f, err = ParseFilter("name,=,Cleese, John")
	require.NoError(t, err)
	assert.Equal(t, "Cleese, John", f.Value)

	_, err = ParseFilter("age>18")
	assert.Error(t, err)
	_, err = ParseFilter("age,~,18")
	assert.ErrorIs(t, err, query.ErrInvalidOperator)
}

func TestGetDatastoreConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("backend", "sqlite")
	viper.Set("root", "/tmp/dds.db")
	viper.Set("cache-size", 64)
	viper.Set("lowercase", true)

	conf := GetDatastoreConfig()
	assert.Equal(t, "sqlite", conf.Backend)
	assert.Equal(t, "/tmp/dds.db", conf.Root)
	assert.Equal(t, 64, conf.CacheSize)
	assert.True(t, conf.Lowercase)
	assert.Contains(t, conf.String(), "Backend: sqlite")
}

func roundTrip(t *testing.T, conf *DatastoreConfig) {
	t.Helper()
	ds, err := OpenDatastore(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = datastore.Close(ds) })

	k := key.New("/Comedy/MontyPython/Actor:JohnCleese")
	doc := map[string]any{"name": "John Cleese", "age": float64(84)}
	require.NoError(t, ds.Put(k, doc))

	value, loaded, err := ds.Get(k)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, doc, value)

	cursor, err := ds.Query(query.New(key.New("/Comedy/MontyPython/Actor")))
	require.NoError(t, err)
	values, err := cursor.Collect()
	require.NoError(t, err)
	assert.Equal(t, []any{doc}, values)
}

func TestOpenDatastore(t *testing.T) {
	dir := t.TempDir()
	for _, conf := range []*DatastoreConfig{
		{Backend: "memory", Serializer: "json"},
		{Backend: "memory", Root: filepath.Join(dir, "mem.snap"), Serializer: "gob"},
		{Backend: "fs", Root: filepath.Join(dir, "fs"), Serializer: "prettyjson", Lowercase: true},
		{Backend: "fs", Root: filepath.Join(dir, "fs-ns"), Serializer: "json+snappy", Namespace: "/app", CacheSize: 8},
		{Backend: "sqlite", Root: filepath.Join(dir, "dds.db"), Serializer: "json", Metrics: true},
	} {
		t.Run(conf.Backend+"/"+conf.Serializer, func(t *testing.T) {
			roundTrip(t, conf)
		})
	}
}

func TestOpenDatastoreErrors(t *testing.T) {
	for _, conf := range []*DatastoreConfig{
		{Backend: "redis", Serializer: "json"},
		{Backend: "fs", Serializer: "json"},
		{Backend: "sqlite", Serializer: "json"},
		{Backend: "memory", Serializer: "xml"},
	} {
		_, err := OpenDatastore(conf)
		assert.Error(t, err, "%+v", conf)
	}
}

func TestOpenDatastoreClosesLeafOnChainError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem.snap")

	// a serializer that fails its self check makes the chain fail after the leaf was opened
	_, err := OpenDatastore(&DatastoreConfig{Backend: "memory", Root: path, Serializer: "snappy"})
	assert.Error(t, err)
	// closing the memory leaf writes its snapshot
	assert.FileExists(t, path)
}

func TestWriteMetrics(t *testing.T) {
	ds, err := OpenDatastore(&DatastoreConfig{Backend: "memory", Serializer: "none", Metrics: true})
	require.NoError(t, err)
	require.NoError(t, ds.Put(key.New("/a"), "a"))

	var buf bytes.Buffer
	WriteMetrics(&buf)
	assert.Contains(t, buf.String(), `dds_datastore_calls_total{store="memory",op="put"}`)
}
