package ds

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/dDS/cmd/util"
	"github.com/ValentinKolb/dDS/lib/key"
	"github.com/ValentinKolb/dDS/lib/query"
	"github.com/spf13/cobra"
)

var (
	putCmd = &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Stores a value under a key (the value is parsed as JSON if possible)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := key.New(args[0])
			if err := store.Put(k, util.ParseValue(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "put %s successfully\n", k)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := key.New(args[0])
			value, loaded, err := store.Get(k)
			if err != nil {
				return err
			}
			if !loaded {
				fmt.Fprintf(cmd.OutOrStdout(), "key=%s, found=false\n", k)
				return nil
			}
			out, err := formatValue(value)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key=%s, found=true, value=%s\n", k, out)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := key.New(args[0])
			if err := store.Delete(k); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "delete %s successfully\n", k)
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := key.New(args[0])
			found, err := store.Contains(k)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key=%s, found=%t\n", k, found)
			return nil
		},
	}
	queryCmd = &cobra.Command{
		Use:   "query [scope]",
		Short: "Lists the values directly below a scope key",
		Long: `Lists the values directly below a scope key, one per line.

Filters have the form field,op,value with op one of <, <=, =, !=, >=, >.
Orders have the form +field (ascending) or -field (descending).

Example:
  dds ds query /Comedy/MontyPython/Actor --filter age,'>',80 --order -age --limit 2`,
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}
)

func init() {
	key := "filter"
	queryCmd.Flags().StringArray(key, nil, util.WrapString("Filter of the form field,op,value (repeatable, all must match)"))
	key = "order"
	queryCmd.Flags().StringArray(key, nil, util.WrapString("Order of the form +field or -field (repeatable, first is primary)"))
	key = "limit"
	queryCmd.Flags().Int(key, query.NoLimit, util.WrapString("Maximum number of values (negative for no limit)"))
	key = "offset"
	queryCmd.Flags().Int(key, 0, util.WrapString("Number of values to skip"))
	key = "json"
	queryCmd.Flags().Bool(key, false, util.WrapString("Print the result as a single JSON array"))
}

// buildQuery creates the query described by the query command's flags
func buildQuery(cmd *cobra.Command, scope string) (*query.Query, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	q := query.New(key.New(scope), query.WithLimit(limit), query.WithOffset(offset))

	filters, _ := cmd.Flags().GetStringArray("filter")
	for _, raw := range filters {
		f, err := util.ParseFilter(raw)
		if err != nil {
			return nil, err
		}
		q.AddFilter(f)
	}

	orders, _ := cmd.Flags().GetStringArray("order")
	for _, raw := range orders {
		if _, err := q.OrderBy(raw); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	q, err := buildQuery(cmd, args[0])
	if err != nil {
		return err
	}

	cursor, err := store.Query(q)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		values, err := cursor.Collect()
		if err != nil {
			return err
		}
		out, err := json.Marshal(values)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	for value, err := range cursor.All() {
		if err != nil {
			return err
		}
		out, err := formatValue(value)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}

// formatValue renders a value for the terminal: bytes and strings as is,
// everything else as JSON.
func formatValue(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		out, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}
