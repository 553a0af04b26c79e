package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"

	"github.com/mattt/tooldef/internal"
	"github.com/mattt/tooldef/openapi"
)

const maxDefinitionSize = 100 * 1024 * 1024

func newCheckCmd(a *app) *cobra.Command {
	var auth string

	cmd := &cobra.Command{
		Use:   "check [definition-path-or-url]",
		Short: "Check the binding against an OpenAPI definition",
		Long: `Compare the CreateToolRequest binding with the component schema of the
same name in an OpenAPI document and list every disagreement.

The definition can be:
- A local file path
- An HTTP(S) URL
- "-" to read from stdin
If omitted, the definition from the config file is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := a.config.Definition
			if len(args) > 0 {
				location = args[0]
			}
			if location == "" {
				return errors.New("no OpenAPI definition given")
			}
			if auth == "" {
				auth = a.config.Auth
			}

			data, err := a.loadDefinition(cmd, location, auth)
			if err != nil {
				return err
			}

			doc, err := openapi.Load(data)
			if err != nil {
				return err
			}

			mismatches, err := openapi.Check(doc, openapi.WithSchemaName(a.config.SchemaName))
			if err != nil {
				return err
			}

			for _, m := range mismatches {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("definition disagrees with the binding in %d places", len(mismatches))
			}

			a.logger.Info("definition matches binding", "schema", a.config.SchemaName)
			return nil
		},
	}

	cmd.Flags().StringVar(&auth, "auth", "", "Authorization header value (e.g. 'Bearer token123' or 'op://vault/item/field')")
	return cmd
}

func (a *app) loadDefinition(cmd *cobra.Command, location, auth string) ([]byte, error) {
	if location == "-" {
		a.logger.Info("reading definition from stdin")
		return readInput(cmd, location)
	}

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		a.logger.Info("reading definition from URL", "url", location)
		return a.downloadDefinition(cmd.Context(), location, auth)
	}

	a.logger.Info("reading definition from file", "file", location)

	cleanPath := filepath.Clean(location)
	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("definition file does not exist: %s", cleanPath)
		}
		return nil, fmt.Errorf("error accessing definition file %s: %w", cleanPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("specified path is a directory, not a file: %s", cleanPath)
	}
	if info.Size() > maxDefinitionSize {
		return nil, fmt.Errorf("definition file too large (max 100MB): %s", cleanPath)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading definition file %s: %w", cleanPath, err)
	}
	return data, nil
}

func (a *app) downloadDefinition(ctx context.Context, url, auth string) ([]byte, error) {
	headers := http.Header{}
	headers.Set("User-Agent", "tooldef/"+version)
	headers.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.8")

	if auth != "" {
		resolved, isSecret, err := internal.ResolveSecretReference(ctx, auth)
		if err != nil {
			return nil, fmt.Errorf("error resolving auth: %w", err)
		}
		if isSecret {
			a.logger.Debug("resolved auth from secret reference")
		}
		headers.Set("Authorization", resolved)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = a.retries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.HTTPClient.Timeout = a.timeout
	retryClient.HTTPClient.Transport = internal.NewHeaderTransport(retryClient.HTTPClient.Transport, headers)
	retryClient.Logger = a.logger
	if a.rps > 0 {
		retryClient.Backoff = rateLimitedBackoff(a.rps)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := retryClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading definition: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("error downloading definition: %s returned %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDefinitionSize))
	if err != nil {
		return nil, fmt.Errorf("error reading definition from %s: %w", url, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no definition data returned from %s", url)
	}
	return data, nil
}

// rateLimitedBackoff waits at least 1/rps between attempts
func rateLimitedBackoff(rps int) retryablehttp.Backoff {
	minWait := time.Second / time.Duration(rps)
	return func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
		if min < minWait {
			min = minWait
		}
		return retryablehttp.DefaultBackoff(min, max, attemptNum, resp)
	}
}
