package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lawlow/internal/config"
	models "lawlow/internal/domain/models/law"
	serviceLLM "lawlow/internal/service/llm"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [prec|statute] [id]",
	Short: "Summarize a law with the configured model",
	Long: `Runs the same pipeline as POST /api/laws/{type}/{id}/summary.
Pass --recent with a previous summary to ask for an easier version.
--stream prints chunks as they arrive (summary only, no title or keywords).`,
	Args: cobra.ExactArgs(2),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().Bool("stream", false, "print summary chunks as they arrive")
	summarizeCmd.Flags().String("recent", "", "previous summary to simplify")
	summarizeCmd.Flags().Bool("title-only", false, "only extract the easy title and keywords")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lawType, err := parseType(args[0])
	if err != nil {
		return err
	}
	stream, _ := cmd.Flags().GetBool("stream")
	recent, _ := cmd.Flags().GetString("recent")
	titleOnly, _ := cmd.Flags().GetBool("title-only")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger()
	summaries, err := serviceLLM.SetupSummary(cfg, newLawService(cfg, logger), logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	req := models.SummaryRequest{RecentSummaryMsg: recent}

	switch {
	case titleOnly:
		tk, err := summaries.TitleAndKeywords(ctx, lawType, args[1])
		if err != nil {
			return err
		}
		return printJSON(out, tk)

	case stream:
		err := summaries.SummarizeStream(ctx, lawType, args[1], req, func(chunk string) error {
			_, err := fmt.Fprint(out, chunk)
			return err
		})
		fmt.Fprintln(out)
		return err

	default:
		resp, err := summaries.Summarize(ctx, lawType, args[1], req)
		if err != nil {
			return err
		}
		return printJSON(out, resp)
	}
}
