package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncobase/lookup/expand"
	"github.com/ncobase/lookup/taint"
)

// NewFindCommand wires the full dispatcher pipeline — ParseType,
// SplitArgs, Open, Find, Tidy — against a configured backend, mirroring
// what a long-running caller would do once per lookup.
func NewFindCommand() *cobra.Command {
	var explicitKey string

	cmd := &cobra.Command{
		Use:   "find <type> <arg>",
		Short: "Run one lookup through the dispatcher and print the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDispatcher(configPath)
			if err != nil {
				return err
			}
			defer d.Tidy()

			spec, err := d.ParseType(args[0])
			if err != nil {
				return fmt.Errorf("parsing type: %w", err)
			}

			// args[1] is the raw search argument: the query/SQL/path for
			// query and abs-file-query drivers, or the file name for
			// single-key-file drivers, whose key comes from --key (spec.md §4.3).
			filename, keyquery := d.SplitArgs(spec, args[1], explicitKey, "")

			ctx := context.Background()
			h, err := d.Open(ctx, spec.DriverIndex, taint.Clean(filename))
			if err != nil {
				return fmt.Errorf("opening: %w", err)
			}

			var sink expand.Slice
			result := d.Find(ctx, h, spec, filename, taint.Tainted(keyquery), &sink)
			if result.Err != nil {
				return fmt.Errorf("find: %w", result.Err)
			}
			if result.Deferred {
				fmt.Println("DEFER")
				return nil
			}
			if !result.HasPayload {
				fmt.Println("FAIL")
				return nil
			}
			fmt.Println(result.Payload)
			for _, v := range sink.Vars {
				fmt.Printf("  $%d=%q\n", v.Length, v.Value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&explicitKey, "key", "", "explicit lookup key for single-key-file drivers")
	return cmd
}
