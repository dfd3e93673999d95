package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dsablic/healthlog/internal/config"
	"github.com/dsablic/healthlog/internal/narrative"
	"github.com/dsablic/healthlog/internal/output"
)

func newNarrateCmd(a *app) *cobra.Command {
	var wf windowFlags
	var cli, promptFile, outPath string

	cmd := &cobra.Command{
		Use:   "narrate",
		Short: "Write an AI-generated summary of the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.narrator(cli)
			if err != nil {
				return err
			}

			extra := ""
			if promptFile != "" {
				data, err := os.ReadFile(promptFile)
				if err != nil {
					return fmt.Errorf("read prompt file: %w", err)
				}
				extra = string(data)
			}

			d, err := a.buildDashboard(cmd.Context(), &wf)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := output.WriteJSON(&buf, d); err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Generating summary with %s...\n", gen.Name())
			md, err := gen.Generate(cmd.Context(), buf.Bytes(), narrative.DefaultPrompt(extra))
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = fmt.Fprint(os.Stdout, md)
				return err
			}
			if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(os.Stderr, "Summary written to %s\n", outPath)
			return nil
		},
	}
	wf.register(cmd)
	cmd.Flags().StringVar(&cli, "cli", "", "AI CLI to use (claude, codex, gemini); implies the cli provider")
	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "File with additional instructions for the summary")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the summary to a file instead of stdout")
	return cmd
}

func (a *app) narrator(cli string) (narrative.Generator, error) {
	if cli == "" && a.cfg.AIProvider == config.AIProviderOpenAI {
		return &narrative.OpenAIGenerator{
			BaseURL: a.cfg.OpenAIBaseURL,
			APIKey:  a.cfg.OpenAIAPIKey,
			Model:   a.cfg.OpenAIModel,
		}, nil
	}
	if cli == "" {
		cli = a.cfg.AICLI
	}
	return narrative.NewCLIGenerator(cli)
}
