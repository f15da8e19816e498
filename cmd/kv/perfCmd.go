package kv

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/rKV/cmd/util"
	"github.com/ValentinKolb/rKV/rpc/common"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for rKV servers",
		Long:    "",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)
)

// perfTest is a single benchmark. prepare seeds the keys before the timer starts,
// op runs one operation against key number i.
type perfTest struct {
	name    string
	prepare bool
	op      func(key string, i int) error
}

// perfResult combines throughput and latency of one benchmark
type perfResult struct {
	bench   testing.BenchmarkResult
	latency gometrics.Timer
}

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
	perfSkip = util.SplitList(viper.GetString("skip"))

	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for rKV servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	tests := []perfTest{
		{name: "put", op: func(key string, _ int) error {
			_, err := rpcStore.Put(key, []byte("test"))
			return err
		}},
		{name: "put-large", op: func(key string, _ int) error {
			_, err := rpcStore.Put(key, largeValue)
			return err
		}},
		{name: "get", prepare: true, op: func(key string, _ int) error {
			_, _, err := rpcStore.Get(key)
			return err
		}},
		{name: "get-missing", op: func(key string, _ int) error {
			_, _, err := rpcStore.Get(key)
			return err
		}},
		{name: "delete", prepare: true, op: func(key string, _ int) error {
			_, err := rpcStore.Delete(key)
			return err
		}},
		{name: "mixed", prepare: true, op: func(key string, i int) error {
			var err error
			switch i % 3 {
			case 0:
				_, err = rpcStore.Put(key, []byte("test"))
			case 1:
				_, _, err = rpcStore.Get(key)
			case 2:
				_, err = rpcStore.Delete(key)
			}
			return err
		}},
	}

	// Create results map
	registry := gometrics.NewRegistry()
	results := make(map[string]perfResult)
	order := make([]string, 0, len(tests))

	for _, test := range tests {
		latency := gometrics.GetOrRegisterTimer(test.name, registry)
		result := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(test.name) {
				return
			}
			runBenchmark(b, test, latency)
		})
		results[test.name] = perfResult{bench: result, latency: latency}
		order = append(order, test.name)
		printBenchResult(test.name, results[test.name])
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, order, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// runBenchmark runs test in parallel and records the latency of every operation
func runBenchmark(b *testing.B, test perfTest, latency gometrics.Timer) {
	// prepare keys
	getKey, iter := getKeys(test.name)

	if test.prepare {
		iter(func(k string) {
			if _, err := rpcStore.Put(k, []byte("test")); err != nil {
				log.Printf("(%s) - error putting key: %v\n", test.name, err)
			}
		})
	}

	// cleanup
	b.Cleanup(func() {
		iter(func(k string) {
			if _, err := rpcStore.Delete(k); err != nil {
				log.Printf("(%s) - error deleting key: %v\n", test.name, err)
			}
		})
	})

	b.SetParallelism(perfNumThreads)

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			start := time.Now()
			err := test.op(getKey(counter), counter)
			latency.UpdateSince(start)
			if err != nil {
				log.Printf("(%s) - error: %v\n", test.name, err)
			}
			counter++
		}
	})
}

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// opsPerSec converts a benchmark result to throughput, zero if the benchmark was skipped
func opsPerSec(result testing.BenchmarkResult) (nsPerOp, perSec float64) {
	if result.NsPerOp() == 0 {
		return 0, 0
	}
	nsPerOp = math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	return nsPerOp, 1.0 / (nsPerOp / 1e9)
}

// printBenchResult prints the result of a benchmark test in a formatted way
func printBenchResult(test string, result perfResult) {
	nsPerOp, perSec := opsPerSec(result.bench)
	if nsPerOp == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	snap := result.latency.Snapshot()
	p := snap.Percentiles([]float64{0.5, 0.99})

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50=%s p99=%s max=%s\n",
		test, nsPerOp, time.Duration(nsPerOp), perSec,
		time.Duration(p[0]), time.Duration(p[1]), time.Duration(snap.Max()))
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, order []string, results map[string]perfResult, config *common.ClientConfig) error {
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
		"P50", "P99", "Max",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"Serializer", "Transport",
		"Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for _, test := range order {
		result := results[test]
		nsPerOp, perSec := opsPerSec(result.bench)
		snap := result.latency.Snapshot()
		p := snap.Percentiles([]float64{0.5, 0.99})

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", perSec),
			strconv.FormatBool(nsPerOp == 0),
			time.Duration(p[0]).String(),
			time.Duration(p[1]).String(),
			time.Duration(snap.Max()).String(),
			strings.Join(config.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(config.ConnectionsPerEndpoint),
			viper.GetString("serializer"),
			viper.GetString("transport"),
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
