package util

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/datastore/fsstore"
	"github.com/ValentinKolb/dDS/lib/datastore/lrustore"
	"github.com/ValentinKolb/dDS/lib/datastore/memstore"
	"github.com/ValentinKolb/dDS/lib/datastore/shim"
	"github.com/ValentinKolb/dDS/lib/datastore/sqlstore"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/ValentinKolb/dDS/lib/serializer"
	"github.com/VictoriaMetrics/metrics"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupDatastoreFlags adds the flags describing the datastore chain to a command
func SetupDatastoreFlags(cmd *cobra.Command) {
	key := "backend"
	cmd.PersistentFlags().String(key, "fs", WrapString("The leaf datastore to use (fs, sqlite, memory)"))

	key = "root"
	cmd.PersistentFlags().String(key, "", WrapString("Location of the data: the root directory for fs, the database file for sqlite and an optional snapshot file for memory"))

	key = "serializer"
	cmd.PersistentFlags().String(key, "json", WrapString(fmt.Sprintf("Serializer for the stored values, combine with '+' (%s)", strings.Join(serializer.Names(), ", "))))

	key = "lowercase"
	cmd.PersistentFlags().Bool(key, false, WrapString("Fold all keys to lower case"))

	key = "namespace"
	cmd.PersistentFlags().String(key, "", WrapString("Mount all keys below this key prefix"))

	key = "cache-size"
	cmd.PersistentFlags().Int(key, 0, WrapString("Number of values to keep in an in-memory LRU cache (0 disables the cache)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("The log level (debug, info, warn, error)"))

	key = "metrics"
	cmd.PersistentFlags().Bool(key, false, WrapString("Print call metrics of the datastore to stderr on exit"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dds")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// --------------------------------------------------------------------------
// Datastore configuration
// --------------------------------------------------------------------------

// DatastoreConfig describes the datastore chain built by OpenDatastore.
type DatastoreConfig struct {
	Backend    string
	Root       string
	Serializer string
	Lowercase  bool
	Namespace  string
	CacheSize  int
	LogLevel   string
	Metrics    bool
}

// String returns a readable multi line description of the configuration
func (c *DatastoreConfig) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Backend: %s\n", c.Backend)
	fmt.Fprintf(&b, "Root: %s\n", c.Root)
	fmt.Fprintf(&b, "Serializer: %s\n", c.Serializer)
	fmt.Fprintf(&b, "Lowercase: %t\n", c.Lowercase)
	fmt.Fprintf(&b, "Namespace: %s\n", c.Namespace)
	fmt.Fprintf(&b, "CacheSize: %d\n", c.CacheSize)
	fmt.Fprintf(&b, "Metrics: %t", c.Metrics)
	return b.String()
}

// GetDatastoreConfig reads the datastore configuration from viper
func GetDatastoreConfig() *DatastoreConfig {
	return &DatastoreConfig{
		Backend:    viper.GetString("backend"),
		Root:       viper.GetString("root"),
		Serializer: viper.GetString("serializer"),
		Lowercase:  viper.GetBool("lowercase"),
		Namespace:  viper.GetString("namespace"),
		CacheSize:  viper.GetInt("cache-size"),
		LogLevel:   viper.GetString("log-level"),
		Metrics:    viper.GetBool("metrics"),
	}
}

// openLeaf creates the leaf datastore of the chain
func openLeaf(conf *DatastoreConfig) (datastore.IDatastore, error) {
	switch conf.Backend {
	case "fs":
		if conf.Root == "" {
			return nil, fmt.Errorf("the fs backend needs a root directory (--root)")
		}
		return fsstore.New(conf.Root, fsstore.WithIgnore(".git", ".DS_Store"))
	case "sqlite":
		if conf.Root == "" {
			return nil, fmt.Errorf("the sqlite backend needs a database file (--root)")
		}
		return sqlstore.Open(conf.Root)
	case "memory":
		if conf.Root == "" {
			return memstore.New(), nil
		}
		return memstore.OpenFile(conf.Root)
	default:
		return nil, fmt.Errorf("invalid backend %s", conf.Backend)
	}
}

// OpenDatastore builds the datastore chain described by conf, from the leaf
// outwards: serializer, namespace, lowercase, cache, instrumentation, logging.
func OpenDatastore(conf *DatastoreConfig) (datastore.IDatastore, error) {
	ser, err := serializer.ByName(conf.Serializer)
	if err != nil {
		return nil, err
	}

	leaf, err := openLeaf(conf)
	if err != nil {
		return nil, err
	}

	wrappers := []shim.Wrapper{shim.WithSerializer(ser)}
	if conf.Namespace != "" {
		wrappers = append(wrappers, shim.WithNamespace(conf.Namespace))
	}
	if conf.Lowercase {
		wrappers = append(wrappers, shim.WithLowercase())
	}
	if conf.CacheSize > 0 {
		cache, err := lrustore.New(conf.CacheSize)
		if err != nil {
			_ = datastore.Close(leaf)
			return nil, err
		}
		wrappers = append(wrappers, shim.WithCache(cache))
	}
	if conf.Metrics {
		wrappers = append(wrappers, shim.WithInstrumentation(conf.Backend))
	}
	wrappers = append(wrappers, shim.WithLogging(logger.GetLogger("cli")))

	ds, err := shim.Chain(leaf, wrappers...)
	if err != nil {
		_ = datastore.Close(leaf)
		return nil, err
	}
	return ds, nil
}

// WriteMetrics writes all collected metrics in the prometheus text format
func WriteMetrics(w io.Writer) {
	metrics.WritePrometheus(w, false)
}

// --------------------------------------------------------------------------
// Value and query parsing
// --------------------------------------------------------------------------

// ParseValue parses a command line value as JSON. Anything that is not valid
// JSON is taken as a plain string.
func ParseValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	return value
}

// ParseFilter parses a filter of the form field,op,value. The value is parsed
// with ParseValue and may itself contain commas.
func ParseFilter(raw string) (query.Filter, error) {
	parts := strings.SplitN(raw, ",", 3)
	if len(parts) != 3 {
		return query.Filter{}, fmt.Errorf("invalid filter %q: expected field,op,value", raw)
	}
	return query.NewFilter(parts[0], parts[1], ParseValue(parts[2]))
}
