package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattt/tooldef/mcp"
	"github.com/mattt/tooldef/serialization"
)

func newImportMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-mcp FILE",
		Short: "Convert an MCP tools/list response into create-tool requests",
		Long: `Read the result of an MCP tools/list call, either bare or wrapped in a
JSON-RPC response, and print a JSON list of create-tool requests.
Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			list, err := mcp.DecodeToolsList(bytes.NewReader(data))
			if err != nil {
				return err
			}
			a.logger.Debug("decoded tools/list", "tools", len(list.Tools))

			reqs, err := mcp.ToCreateToolRequests(list)
			if err != nil {
				return err
			}

			outputs := make([]json.RawMessage, 0, len(reqs))
			for _, req := range reqs {
				out, err := serialization.Marshal(serialization.CreateToolRequest, req)
				if err != nil {
					return fmt.Errorf("tool %q: %w", req.Function.GetName(), err)
				}
				outputs = append(outputs, out)
			}

			data, err = json.MarshalIndent(outputs, "", "  ")
			if err != nil {
				return fmt.Errorf("error encoding requests: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
