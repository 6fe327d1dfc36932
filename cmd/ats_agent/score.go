package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-optimizer/internal/ingestion"
	"github.com/jonathan/ats-optimizer/internal/observability"
	"github.com/jonathan/ats-optimizer/internal/session"
	"github.com/jonathan/ats-optimizer/internal/types"
)

var (
	scoreResumePath string
	scoreHTML       bool
	scorePassPath   string
	scoreApplyAll   bool
	scoreVerbose    bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a saved optimization pass",
	Long: `Score a resume offline using a previously generated optimization pass.
Reads the resume and pass from disk and prints the score breakdown as JSON.
With --apply-all the breakdown reflects every suggestion and keyword applied.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreResumePath, "resume", "", "Path to the resume file (required)")
	scoreCmd.Flags().BoolVar(&scoreHTML, "html", false, "Treat the resume file as HTML")
	scoreCmd.Flags().StringVar(&scorePassPath, "pass", "", "Path to the optimization pass JSON (required)")
	scoreCmd.Flags().BoolVar(&scoreApplyAll, "apply-all", false, "Report the score with every item applied")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print formatted suggestion and keyword summaries to stderr")
	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("pass")
	rootCmd.AddCommand(scoreCmd)
}

// passFile is the on-disk optimization pass format, as written by the
// optimize command.
type passFile struct {
	BaseScore   int                   `json:"base_score"`
	Suggestions []types.RawSuggestion `json:"suggestions"`
	Keywords    []string              `json:"keywords"`
}

func runScore(_ *cobra.Command, _ []string) error {
	sess, err := scoreFiles(scoreResumePath, scorePassPath, scoreHTML, scoreApplyAll)
	if err != nil {
		return err
	}

	if scoreVerbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintBreakdown(sess.Breakdown)
		printer.PrintSuggestions(sess.Suggestions)
		printer.PrintKeywords(sess.Keywords)
	}

	out, err := json.MarshalIndent(sess.Breakdown, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func scoreFiles(resumePath, passPath string, html, applyAll bool) (*session.Session, error) {
	resumeData, err := os.ReadFile(resumePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	passData, err := os.ReadFile(passPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pass: %w", err)
	}

	var pf passFile
	if err := json.Unmarshal(passData, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse pass JSON: %w", err)
	}

	var content types.ResumeContent
	if html {
		content, err = ingestion.ExtractFromHTML(string(resumeData))
		if err != nil {
			return nil, fmt.Errorf("failed to parse resume HTML: %w", err)
		}
	} else {
		content = ingestion.FromPlainText(ingestion.CleanText(string(resumeData)))
	}

	pass := session.FromRaw(pf.BaseScore, pf.Suggestions, pf.Keywords)
	sess := session.New(pass, content)
	if applyAll {
		sess.ApplyAll()
	}
	return sess, nil
}
