package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"lawlow/internal/config"
	models "lawlow/internal/domain/models/law"
)

var searchCmd = &cobra.Command{
	Use:   "search [prec|statute] [query]",
	Short: "Search precedents or statutes and print the full details",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSearch,
}

var showCmd = &cobra.Command{
	Use:   "show [prec|statute] [id]",
	Short: "Print one precedent or statute",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

func init() {
	searchCmd.Flags().Int("page", models.DefaultPage, "page number (1-based)")
	searchCmd.Flags().Int("take", models.DefaultTake, "results per page")
	searchCmd.Flags().Bool("ids", false, "print only the ids")
	rootCmd.AddCommand(searchCmd, showCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	lawType, err := parseType(args[0])
	if err != nil {
		return err
	}
	query := ""
	if len(args) == 2 {
		query = args[1]
	}
	page, _ := cmd.Flags().GetInt("page")
	take, _ := cmd.Flags().GetInt("take")
	idsOnly, _ := cmd.Flags().GetBool("ids")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	result, err := newLawService(cfg, newLogger()).GetLawList(cmd.Context(), lawType, models.ListQuery{
		Query: query,
		Page:  page,
		Take:  take,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if idsOnly {
		for _, d := range result.List {
			fmt.Fprintln(out, d.LawID())
		}
		fmt.Fprintf(out, "page %d/%d, %d total\n", result.CurrentPage, result.TotalPages, result.TotalElements)
		return nil
	}
	return printJSON(out, result)
}

func runShow(cmd *cobra.Command, args []string) error {
	lawType, err := parseType(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	detail, err := newLawService(cfg, newLogger()).GetLawDetail(cmd.Context(), lawType, args[1])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), detail)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
