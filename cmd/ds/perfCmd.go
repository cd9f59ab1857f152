package ds

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/dDS/cmd/util"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the configured datastore",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfLog              = logger.GetLogger("cli")
	perfScope            = key.New("/__perf")
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the put-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

// perfTest is a single benchmark. setup runs before the timer starts.
type perfTest struct {
	name  string
	setup bool
	op    func(k key.Key, counter int) error
}

func runPerf(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Performance testing tool for dDS datastores")

	// Print configuration
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintln(out, conf.String())
	fmt.Fprintf(out, "Threads: %d\n", perfNumThreads)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "starting tests...")

	largeValue := strings.Repeat("x", perfLargeValueSizeKB*1024)
	tests := []perfTest{
		{name: "put", op: func(k key.Key, _ int) error {
			return store.Put(k, "test")
		}},
		{name: "put-large", op: func(k key.Key, _ int) error {
			return store.Put(k, largeValue)
		}},
		{name: "get", setup: true, op: func(k key.Key, _ int) error {
			_, _, err := store.Get(k)
			return err
		}},
		{name: "has", setup: true, op: func(k key.Key, _ int) error {
			_, err := store.Contains(k)
			return err
		}},
		{name: "query", setup: true, op: func(k key.Key, _ int) error {
			parent, err := k.Parent()
			if err != nil {
				return err
			}
			cursor, err := store.Query(query.New(parent, query.WithLimit(10)))
			if err != nil {
				return err
			}
			_, err = cursor.Collect()
			return err
		}},
		{name: "mixed", setup: true, op: func(k key.Key, counter int) error {
			var err error
			switch counter % 4 {
			case 0: // put
				err = store.Put(k, "test")
			case 1: // get
				_, _, err = store.Get(k)
			case 2: // delete
				err = store.Delete(k)
			case 3: // has
				_, err = store.Contains(k)
			}
			return err
		}},
	}

	// Create results map
	results := make(map[string]testing.BenchmarkResult)
	for _, test := range tests {
		result := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(test.name) {
				return
			}
			benchmark(b, test)
		})
		results[test.name] = result
		printResult(cmd, test.name, result)
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Fprintf(out, "\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, conf); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Fprintln(out, "Export complete")
	}
	return nil
}

func benchmark(b *testing.B, test perfTest) {
	// prepare keys
	getKey, iter := getKeys(test.name)

	if test.setup {
		iter(func(k key.Key) {
			if err := store.Put(k, "test"); err != nil {
				perfLog.Errorf("(%s) - error putting key: %v", test.name, err)
			}
		})
	}

	// cleanup
	b.Cleanup(func() {
		iter(func(k key.Key) {
			if err := store.Delete(k); err != nil {
				perfLog.Errorf("(%s) - error deleting key: %v", test.name, err)
			}
		})
	})

	b.SetParallelism(perfNumThreads)

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			if err := test.op(getKey(counter), counter); err != nil {
				perfLog.Errorf("(%s) - error performing operation: %v", test.name, err)
			}
			counter++
		}
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

// creates the test keys of a benchmark and functions to work with them
func getKeys(test string) (func(int) key.Key, func(func(key.Key))) {
	scope := perfScope.Child(test)
	keys := make([]key.Key, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = scope.Child(fmt.Sprintf("k%d", i))
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) key.Key {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(key.Key)) {
		for _, k := range keys {
			fn(k)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(cmd *cobra.Command, test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Fprintf(cmd.OutOrStdout(), "%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *util.DatastoreConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Backend", "Serializer", "Lowercase", "Namespace", "CacheSize",
		"Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results in a stable order
	tests := make([]string, 0, len(results))
	for test := range results {
		tests = append(tests, test)
	}
	slices.Sort(tests)

	for _, test := range tests {
		result := results[test]
		var nsPerOp float64
		var opsPerSec float64
		skipped := "true"
		if result.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			config.Backend,
			config.Serializer,
			strconv.FormatBool(config.Lowercase),
			config.Namespace,
			strconv.Itoa(config.CacheSize),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
