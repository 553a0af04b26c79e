package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mattt/tooldef/internal"
	"github.com/mattt/tooldef/serialization"
)

type validateResult struct {
	output json.RawMessage
	err    error
}

func newValidateCmd(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate create-tool requests and print them as wire JSON",
		Long: `Validate each file as a create-tool request and print its normalized wire JSON.

A file may hold a single request or a list of requests, written as JSON or YAML.
Use "-" to read from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.config.ParseOptions()
			results := make([]validateResult, len(args))

			g, _ := errgroup.WithContext(cmd.Context())
			g.SetLimit(8)
			for i, name := range args {
				data, err := readInput(cmd, name)
				if err != nil {
					results[i].err = err
					continue
				}

				g.Go(func() error {
					a.logger.Debug("validating", "file", name)
					results[i].output, results[i].err = normalize(data, opts)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			failed := 0
			for i, result := range results {
				if result.err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", args[i], result.err)
					continue
				}
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), string(result.output))
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only report errors")
	return cmd
}

// normalize parses every request in data and re-encodes it as wire JSON
func normalize(data []byte, opts []serialization.Option) (json.RawMessage, error) {
	docs, list, err := internal.SplitDocuments(data)
	if err != nil {
		return nil, err
	}

	outputs := make([]json.RawMessage, 0, len(docs))
	for i, doc := range docs {
		docOpts := opts
		if list {
			docOpts = append(docOpts[:len(docOpts):len(docOpts)], serialization.WithBreadcrumbsPrefix(strconv.Itoa(i)))
		}

		req, err := serialization.Unmarshal(serialization.CreateToolRequest, doc, docOpts...)
		if err != nil {
			return nil, err
		}
		out, err := serialization.Marshal(serialization.CreateToolRequest, req, docOpts...)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}

	if !list {
		return outputs[0], nil
	}
	return json.Marshal(outputs)
}
