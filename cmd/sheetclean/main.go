package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"sheetclean/adapters/datareadiness/normalizer"
	"sheetclean/app"
	"sheetclean/internal/config"
	"sheetclean/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sheetclean",
		Short:         "Infer and normalize column types of spreadsheet data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSheetsCmd(),
		newCleanCmd(),
		newProfileCmd(),
	)
	return rootCmd
}

// loadService builds the clean service from .env and the environment
func loadService() (*app.CleanService, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	return c.CleanService, nil
}

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [file]",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}

			names, err := svc.SheetNames(args[0])
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newCleanCmd() *cobra.Command {
	var sheet string
	var out string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Normalize one sheet or a whole workbook",
		Long: `Normalize the columns of a spreadsheet. Each column settles on one type
(boolean, numeric, datetime or text) and its values are converted.

Without --sheet every data sheet is cleaned; --out writes them to a new .xlsx.

Example: sheetclean clean survey.xlsx --out survey_clean.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if sheet != "" {
				result, err := svc.CleanSheet(args[0], sheet)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(w, result)
				}
				return writeSheetSummary(w, normalizer.CleanSheet{Name: result.Name, Table: result.Clean, Reports: result.Reports})
			}

			var cleaned []normalizer.CleanSheet
			if out != "" {
				cleaned, err = svc.ExportWorkbook(cmd.Context(), args[0], out)
			} else {
				cleaned, err = svc.CleanWorkbook(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(w, cleaned)
			}
			for _, s := range cleaned {
				if err := writeSheetSummary(w, s); err != nil {
					return err
				}
			}
			if out != "" {
				fmt.Fprintf(w, "wrote %d sheets to %s\n", len(cleaned), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to clean (default: every data sheet)")
	cmd.Flags().StringVar(&out, "out", "", "Write the cleaned workbook to this .xlsx file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print cleaned data as JSON")
	cmd.MarkFlagsMutuallyExclusive("sheet", "out")

	return cmd
}

func newProfileCmd() *cobra.Command {
	var sheet string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Clean a sheet and report per-column diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}

			profile, err := svc.ProfileSheet(args[0], sheet)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), profile)
			}
			return writeProfile(cmd.OutOrStdout(), sheet, profile)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to profile")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the profile as JSON")
	_ = cmd.MarkFlagRequired("sheet")

	return cmd
}
