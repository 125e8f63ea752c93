package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aashish23092/financial-auditor/client"
	"github.com/Aashish23092/financial-auditor/config"
	"github.com/Aashish23092/financial-auditor/dto"
	"github.com/Aashish23092/financial-auditor/report"
	"github.com/Aashish23092/financial-auditor/service"
)

// below this many values the first-digit shares are too noisy to read much into
const minReliableSample = 100

var analyzeFlags struct {
	password   string
	jsonOutput bool
	reportPath string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyse the leading digits of the numbers in a document",
	Long: `Extract every number from a document and compare the share of each
leading digit 1-9 with the frequency Benford's Law predicts.

The file type is taken from the extension: .pdf .csv .xlsx .txt .png .jpg .tif.
Pass "-" to read plain text from stdin.

Usage:
  benford analyze ledger.csv
  benford analyze statement.pdf --password secret --report audit.pdf
  benford analyze - --json < notes.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.password, "password", "p", "", "Password of an encrypted PDF")
	f.BoolVar(&analyzeFlags.jsonOutput, "json", false, "Print the full analysis as JSON")
	f.StringVarP(&analyzeFlags.reportPath, "report", "r", "", "Write the PDF audit report to this path")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, cfg.TesseractLanguage)
	defer tesseractClient.Close()

	svc := service.NewAuditService(
		service.NewPDFProcessor(),
		tesseractClient,
		service.NewTableReader(),
		service.NewQRDecoder(),
		report.NewRenderer(),
		nil,
		service.Options{MinPDFTextChars: cfg.MinPDFTextChars, BatchWorkers: 1},
	)

	res, pdf, err := analyze(cmd, svc, args[0])
	if err != nil {
		return err
	}

	if analyzeFlags.reportPath != "" {
		if err := os.WriteFile(analyzeFlags.reportPath, pdf, 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if analyzeFlags.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printSummary(out, res)
	if analyzeFlags.reportPath != "" {
		fmt.Fprintf(out, "Report written to %s\n", analyzeFlags.reportPath)
	}
	return nil
}

// analyze runs the pipeline for path and renders the report only when one was asked for.
func analyze(cmd *cobra.Command, svc *service.AuditService, path string) (*dto.AnalyzeResponse, []byte, error) {
	ctx := cmd.Context()

	if path == "-" {
		text, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
		doc := dto.Document{Filename: "stdin.txt", Data: text}
		if analyzeFlags.reportPath != "" {
			pdf, res, err := svc.Report(ctx, doc)
			return res, pdf, err
		}
		res, err := svc.AnalyzeText(ctx, string(text))
		return res, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc := dto.Document{
		Filename: filepath.Base(path),
		Data:     data,
		Password: analyzeFlags.password,
	}

	if analyzeFlags.reportPath != "" {
		pdf, res, err := svc.Report(ctx, doc)
		return res, pdf, err
	}
	res, err := svc.Analyze(ctx, doc)
	return res, nil, err
}

func printSummary(w io.Writer, res *dto.AnalyzeResponse) {
	if res.Filename != "" {
		fmt.Fprintf(w, "Document: %s (%s)\n", res.Filename, res.Source)
	}
	fmt.Fprintf(w, "Values:   %d analysed, %d zeros, %d unreadable\n", res.Valid, res.Zeros, len(res.Skipped))
	fmt.Fprintln(w)
	for _, line := range res.Distribution.Lines() {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Largest deviation: digit %d (%+.3f)\n", res.LargestDeviation.Digit, res.LargestDeviation.Delta)

	if res.Valid < minReliableSample {
		fmt.Fprintf(w, "Note: fewer than %d values, treat the distribution with caution.\n", minReliableSample)
	}
}
