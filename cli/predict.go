package cli

import (
	"fmt"

	"delivery-eta-api/features"

	"github.com/spf13/cobra"
)

func NewPredictCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "predict <order-file>",
		Short: "Estimate delivery time for one order",
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
			est, err := estimator.Estimate(cmd.Context(), order)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if root.Format == "json" {
				return writeJSON(out, est)
			}

			fmt.Fprintf(out, "estimate: %.2f minutes\n", est.Minutes)
			fmt.Fprintf(out, "model: %s (%s)\n", est.ModelVersion, est.Variant)
			switch features.Variant(est.Variant) {
			case features.VariantWeekend:
				fmt.Fprintf(out, "order time: %s | weekend: %s\n",
					order.CreatedAt.Format("2006-01-02 15:04"), yesNo(est.Features[features.FeatureIsWeekend]))
			case features.VariantRush:
				fmt.Fprintf(out, "order hour: %d | rush hour: %s\n",
					int(est.Features[features.FeatureOrderHour]), yesNo(est.Features[features.FeatureIsRushHour]))
			}
			return nil
		},
	}
}
