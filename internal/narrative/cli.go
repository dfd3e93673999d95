package narrative

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// supportedCLIs is the ordered list of AI CLI tools we can invoke.
var supportedCLIs = []string{"claude", "codex", "gemini"}

// SupportedCLIs returns the list of supported AI CLI tool names.
func SupportedCLIs() []string {
	out := make([]string, len(supportedCLIs))
	copy(out, supportedCLIs)
	return out
}

// LookupFunc resolves a command name to its path. Compatible with exec.LookPath.
type LookupFunc func(name string) (string, error)

// DetectCLI finds the first supported AI CLI available on the system PATH.
func DetectCLI() (string, error) {
	return DetectCLIWith(exec.LookPath)
}

// DetectCLIWith returns the first supported CLI the lookup finds, in
// SupportedCLIs order.
func DetectCLIWith(lookup LookupFunc) (string, error) {
	for _, cli := range supportedCLIs {
		if _, err := lookup(cli); err == nil {
			return cli, nil
		}
	}
	return "", fmt.Errorf("no supported AI CLI found; install one of: %s", strings.Join(supportedCLIs, ", "))
}

// BuildArgs returns the command name and argument slice for a non-interactive
// invocation of the given CLI with the provided prompt.
func BuildArgs(cli, prompt string) (string, []string) {
	switch cli {
	case "codex":
		return "codex", []string{"exec", prompt}
	case "gemini":
		return "gemini", []string{"-p", prompt}
	default:
		return "claude", []string{"-p", prompt}
	}
}

// CLIGenerator pipes dashboard JSON to an AI CLI and reads markdown from its
// stdout.
type CLIGenerator struct {
	CLI string
	// Path overrides the executable resolved from CLI.
	Path string
}

// NewCLIGenerator returns a generator for cli, detecting one on PATH when
// cli is empty.
func NewCLIGenerator(cli string) (*CLIGenerator, error) {
	if cli == "" {
		detected, err := DetectCLI()
		if err != nil {
			return nil, err
		}
		cli = detected
	}
	for _, s := range supportedCLIs {
		if s == cli {
			return &CLIGenerator{CLI: cli}, nil
		}
	}
	return nil, fmt.Errorf("unsupported AI CLI %q; supported: %s", cli, strings.Join(supportedCLIs, ", "))
}

func (g *CLIGenerator) Name() string { return g.CLI }

func (g *CLIGenerator) Generate(ctx context.Context, dashboardJSON []byte, prompt string) (string, error) {
	name, args := BuildArgs(g.CLI, prompt)
	if g.Path != "" {
		name = g.Path
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(dashboardJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s failed: %w: %s", g.CLI, err, msg)
		}
		return "", fmt.Errorf("%s failed: %w", g.CLI, err)
	}

	return stdout.String(), nil
}
