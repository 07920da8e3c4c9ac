package cli

import (
	"fmt"
	"strings"

	"delivery-eta-api/features"
	"delivery-eta-api/schema"

	"github.com/spf13/cobra"
)

type schemaOutput struct {
	Features   []string            `json:"features"`
	Categories map[string][]string `json:"categories"`
}

func NewSchemaCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "List the feature schema and the category values it encodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.Load(root.FeaturesPath)
			if err != nil {
				return err
			}
			a, err := schema.NewAligner(s)
			if err != nil {
				return err
			}

			result := schemaOutput{
				Features:   s.Names(),
				Categories: make(map[string][]string),
			}
			for _, field := range features.CategoricalFields() {
				result.Categories[field] = a.Vocabulary().Values(field)
			}

			out := cmd.OutOrStdout()
			if root.Format == "json" {
				return writeJSON(out, result)
			}

			fmt.Fprintf(out, "%d features\n", len(result.Features))
			for _, field := range features.CategoricalFields() {
				fmt.Fprintf(out, "%s: %s\n", field, strings.Join(result.Categories[field], ", "))
			}
			return nil
		},
	}
}
