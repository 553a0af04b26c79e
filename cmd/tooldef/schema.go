package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mattt/tooldef/serialization"
)

func newSchemaCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a create-tool request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(serialization.CreateToolRequest.JSONSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("error encoding schema: %w", err)
			}

			switch format {
			case "json":
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			case "yaml":
				var doc interface{}
				if err := json.Unmarshal(data, &doc); err != nil {
					return fmt.Errorf("error converting schema: %w", err)
				}
				out, err := yaml.Marshal(doc)
				if err != nil {
					return fmt.Errorf("error encoding schema as YAML: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), string(out))
			default:
				return fmt.Errorf("unsupported format %q (want json or yaml)", format)
			}

			a.logger.Debug("printed schema", "format", format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	return cmd
}
