package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type explainOutput struct {
	Columns []explainColumn `json:"columns"`
	Dropped []string        `json:"dropped"`
}

type explainColumn struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// NewExplainCommand shows the aligned record the model receives for an order.
func NewExplainCommand(root *RootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "explain <order-file>",
		Short: "Show the aligned feature record for one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			estimator, err := loadEstimator(root)
			if err != nil {
				return err
			}
			order, err := readOrder(args[0])
			if err != nil {
				return err
			}
			d, rec, err := estimator.Align(order)
			if err != nil {
				return err
			}

			result := explainOutput{Dropped: []string{}}
			values := rec.Values()
			for i, name := range rec.Names() {
				if !all && values[i] == 0 {
					continue
				}
				result.Columns = append(result.Columns, explainColumn{Name: name, Value: values[i]})
			}
			if dropped := estimator.Dropped(d); dropped != nil {
				result.Dropped = dropped
			}

			out := cmd.OutOrStdout()
			if root.Format == "json" {
				return writeJSON(out, result)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, c := range result.Columns {
				fmt.Fprintf(tw, "%s\t%.4f\n", c.Name, c.Value)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, name := range result.Dropped {
				fmt.Fprintf(out, "dropped: %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include zero-valued columns")
	return cmd
}
