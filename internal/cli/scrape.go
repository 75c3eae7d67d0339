package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/scrape"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/fetch"
)

func newScraper() (*scrape.Service, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return scrape.NewService(fetch.New(fetch.Options{
		UserAgent: cfg.FetchUserAgent,
		Timeout:   cfg.FetchTimeout,
	}), logger), nil
}

func init() {
	metadataCmd := &cobra.Command{
		Use:   "metadata <url>",
		Short: "Print title, description, cover, genres and language of a series page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scraper, err := newScraper()
			if err != nil {
				return err
			}
			metadata, err := scraper.FetchMetadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, formatMetadata(metadata))
			return nil
		},
	}

	latestCmd := &cobra.Command{
		Use:   "latest <url>",
		Short: "Print the latest chapter of a series page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scraper, err := newScraper()
			if err != nil {
				return err
			}
			update, err := scraper.FetchLatest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, formatLatest(update, nowFunc()))
			return nil
		},
	}

	var importStatus string
	importCmd := &cobra.Command{
		Use:   "import <url>",
		Short: "Scrape a series page and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if importStatus != "" && !models.ValidStatus(importStatus) {
				return fmt.Errorf("invalid status %q", importStatus)
			}
			services, closeDB, err := openServices()
			if err != nil {
				return err
			}
			defer closeDB()

			ctx := cmd.Context()
			metadata, err := services.Scraper.FetchMetadata(ctx, args[0])
			if err != nil {
				return err
			}
			if metadata.CoverImageURL != nil {
				rehosted := services.Mirror.Rehost(ctx, *metadata.CoverImageURL)
				metadata.CoverImageURL = &rehosted
			}
			book, err := services.Books.UpsertMetadata(ctx, "", args[0], importStatus, metadata)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Saved %q (%s)\n", book.Title, book.ID)
			return nil
		},
	}
	importCmd.Flags().StringVar(&importStatus, "status", "", "reading status (reading, waiting, completed, dropped)")

	rootCmd.AddCommand(metadataCmd, latestCmd, importCmd)
}
