package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-optimizer/internal/ingestion"
	"github.com/jonathan/ats-optimizer/internal/llm"
)

var (
	optimizeResumePath string
	optimizeHTML       bool
	optimizeOutPath    string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Generate an optimization pass for a resume",
	Long: `Run one analysis round against the LLM provider: a base ATS score,
improvement suggestions, and missing keywords. The resulting pass is written
as JSON, suitable for the score command or the POST /sessions endpoint.`,
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeResumePath, "resume", "", "Path to the resume file (required)")
	optimizeCmd.Flags().BoolVar(&optimizeHTML, "html", false, "Treat the resume file as HTML")
	optimizeCmd.Flags().StringVar(&optimizeOutPath, "out", "", "Write the pass to this file instead of stdout")
	_ = optimizeCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	resumeData, err := os.ReadFile(optimizeResumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	resumeText := ingestion.CleanText(string(resumeData))
	if optimizeHTML {
		content, err := ingestion.ExtractFromHTML(string(resumeData))
		if err != nil {
			return fmt.Errorf("failed to parse resume HTML: %w", err)
		}
		resumeText = content.Text
	}

	ctx := cmd.Context()
	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close LLM client: %v\n", err)
		}
	}()

	baseScore, suggestions, keywords, err := llm.GenerateRawPass(ctx, client, resumeText)
	if err != nil {
		return fmt.Errorf("optimization pass failed: %w", err)
	}

	pass := passFile{BaseScore: baseScore, Suggestions: suggestions, Keywords: keywords}
	out, err := json.MarshalIndent(pass, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pass: %w", err)
	}

	if optimizeOutPath != "" {
		if err := os.WriteFile(optimizeOutPath, append(out, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write pass: %w", err)
		}
		fmt.Printf("Wrote optimization pass to %s\n", optimizeOutPath)
		return nil
	}

	fmt.Println(string(out))
	return nil
}
