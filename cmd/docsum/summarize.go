package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"docsum/internal/domain"
	"docsum/internal/summarizer"
)

var (
	summaryLength string
	outputFormat  string
	copySummary   bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize FILE",
	Short: "Print the summary of a PDF or image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(false)
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.service.IngestFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		length := domain.Length("")
		if summaryLength != "" {
			length = domain.ParseLength(summaryLength)
		}
		res, err := a.service.Summarize(doc.Text, length)
		if err != nil {
			return err
		}
		if err := writeResult(cmd.OutOrStdout(), outputFormat, doc, res); err != nil {
			return err
		}
		if copySummary {
			if err := clipboard.WriteAll(summarizer.PlainText(res.SummaryText)); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			a.log.Info("summary copied to clipboard")
		}
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVarP(&summaryLength, "length", "l", "", "Summary length: short, medium or long (defaults to the configured length)")
	summarizeCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text, json or html")
	summarizeCmd.Flags().BoolVar(&copySummary, "copy", false, "Copy the plain summary text to the clipboard")
	rootCmd.AddCommand(summarizeCmd)
}

func writeResult(w io.Writer, format string, doc domain.Document, res domain.Result) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Document string        `json:"document"`
			Pages    int           `json:"pages"`
			Result   domain.Result `json:"result"`
		}{doc.Name, doc.Pages, res})
	case "html":
		_, err := fmt.Fprintln(w, res.SummaryText)
		return err
	case "text", "":
		var b strings.Builder
		fmt.Fprintf(&b, "%s (%s)\n\n", doc.Name, doc.MIMEType)
		fmt.Fprintf(&b, "Summary:\n%s\n\n", summarizer.PlainText(res.SummaryText))
		if len(res.TopWords) > 0 {
			tags := make([]string, len(res.TopWords))
			for i, kw := range res.TopWords {
				tags[i] = "#" + kw
			}
			fmt.Fprintf(&b, "Keywords: %s\n\n", strings.Join(tags, " "))
		}
		if len(res.SummarySentences) > 0 {
			b.WriteString("Key sentences:\n")
			for _, s := range res.SummarySentences {
				fmt.Fprintf(&b, "  - %s\n", s)
			}
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json or html)", format)
	}
}
