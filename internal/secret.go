package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var (
	// CommandContext is a variable that allows overriding the command creation for testing
	CommandContext = exec.CommandContext
	// LookPath is a variable that allows overriding the lookup behavior for testing
	LookPath = exec.LookPath
	// LookupEnv is a variable that allows overriding environment lookup for testing
	LookupEnv = os.LookupEnv
)

// ResolveSecretReference resolves a secret reference into its value.
//
// Two forms are recognized:
//   - op://vault/item/field, read through the 1Password CLI
//   - env://NAME, read from the environment
//
// Any other value is returned unchanged, and the second result is false.
func ResolveSecretReference(ctx context.Context, value string) (string, bool, error) {
	switch {
	case strings.HasPrefix(value, "op://"):
		resolved, err := readOnePassword(ctx, value)
		return resolved, true, err
	case strings.HasPrefix(value, "env://"):
		name := strings.TrimPrefix(value, "env://")
		resolved, ok := LookupEnv(name)
		if !ok || name == "" {
			return "", true, fmt.Errorf("environment variable %q is not set", name)
		}
		return resolved, true, nil
	default:
		return value, false, nil
	}
}

func readOnePassword(ctx context.Context, ref string) (string, error) {
	if _, err := LookPath("op"); err != nil {
		return "", fmt.Errorf("1Password CLI (op) not found in PATH: %w", err)
	}

	output, err := CommandContext(ctx, "op", "read", ref).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("failed to read secret from 1Password: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("failed to read secret from 1Password: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}
