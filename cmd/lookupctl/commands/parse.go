package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncobase/lookup"
)

// NewParseCommand exercises spec.md §4.2's parse_type without needing a
// configured backend — the lookup-type grammar only consults the driver
// registry, which every drivers/* blank import populates at link time.
func NewParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <type>",
		Short: "Parse a lookup-type string and print the resulting spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var d lookup.Dispatcher
			spec, err := d.ParseType(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("driver_index=%d partial=%d affix=%q star=%v star_at=%v opts=%v\n",
				spec.DriverIndex, spec.Partial, spec.Affix, spec.Star, spec.StarAt, spec.Opts)
			return nil
		},
	}
}
