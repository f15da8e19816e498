package kv

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// putOutput is the printable result of a put
type putOutput struct {
	Key        string `json:"key" yaml:"key"`
	Accepted   bool   `json:"accepted" yaml:"accepted"`
	Replicated bool   `json:"replicated" yaml:"replicated"`
	Persisted  bool   `json:"persisted" yaml:"persisted"`
}

// getOutput is the printable result of a get
type getOutput struct {
	Key   string `json:"key" yaml:"key"`
	Found bool   `json:"found" yaml:"found"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// deleteOutput is the printable result of a delete
type deleteOutput struct {
	Key        string `json:"key" yaml:"key"`
	Existed    bool   `json:"existed" yaml:"existed"`
	Replicated bool   `json:"replicated" yaml:"replicated"`
	Persisted  bool   `json:"persisted" yaml:"persisted"`
}

var (
	putCmd = &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Stores the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			res, err := rpcStore.Put(key, []byte(value))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), putOutput{
				Key:        key,
				Accepted:   res.Accepted,
				Replicated: res.Replicated,
				Persisted:  res.Persisted,
			})
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, found, err := rpcStore.Get(key)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), getOutput{Key: key, Found: found, Value: string(value)})
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			res, err := rpcStore.Delete(key)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), deleteOutput{
				Key:        key,
				Existed:    res.Existed,
				Replicated: res.Replicated,
				Persisted:  res.Persisted,
			})
		},
	}
	scanCmd = &cobra.Command{
		Use:   "scan",
		Short: "Lists all live key value pairs of the contacted instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := rpcStore.Scan()
			if err != nil {
				return err
			}
			out := make(map[string]string, len(entries))
			for k, v := range entries {
				out[k] = string(v)
			}
			return printResult(cmd.OutOrStdout(), out)
		},
	}
)

// printResult writes v in the format selected by --output
func printResult(w io.Writer, v any) error {
	return writeResult(w, viper.GetString("output"), v)
}

func writeResult(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		writeText(w, v)
		return nil
	}
}

// writeText prints the human readable form of a result
func writeText(w io.Writer, v any) {
	switch r := v.(type) {
	case putOutput:
		_, _ = fmt.Fprintf(w, "key=%s, accepted=%t, replicated=%t, persisted=%t\n", r.Key, r.Accepted, r.Replicated, r.Persisted)
	case getOutput:
		_, _ = fmt.Fprintf(w, "key=%s, found=%t, value=%s\n", r.Key, r.Found, r.Value)
	case deleteOutput:
		_, _ = fmt.Fprintf(w, "key=%s, existed=%t, replicated=%t, persisted=%t\n", r.Key, r.Existed, r.Replicated, r.Persisted)
	case map[string]string:
		keys := make([]string, 0, len(r))
		for k := range r {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "%s=%s\n", k, r[k])
		}
		_, _ = fmt.Fprintf(w, "(%d entries)\n", len(r))
	default:
		_, _ = fmt.Fprintln(os.Stderr, "unsupported result type")
	}
}
