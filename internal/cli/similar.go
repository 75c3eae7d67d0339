package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/gabriel/reading-tracker/backend/internal/similarity"
)

const (
	reviewMerge = "Merge"
	reviewSkip  = "Skip"
	reviewStop  = "Stop reviewing"
)

func init() {
	similarCmd := &cobra.Command{
		Use:   "similar",
		Short: "Find near-duplicate genres or titles",
	}

	var review bool
	var genreThreshold float64
	genresCmd := &cobra.Command{
		Use:   "genres",
		Short: "List genre pairs that are probably the same genre",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, closeDB, err := openServices()
			if err != nil {
				return err
			}
			defer closeDB()

			threshold := genreThreshold
			if threshold <= 0 {
				threshold = services.Config.Tuning.GenreSimilarityThreshold
			}

			ctx := cmd.Context()
			bookGenres, err := services.Books.ListBookGenres(ctx)
			if err != nil {
				return err
			}
			candidates := similarity.GenreCandidates(similarity.CountGenreUsage(bookGenres), threshold)
			if len(candidates) == 0 {
				fmt.Fprintln(os.Stdout, "No similar genres found")
				return nil
			}

			if !review {
				for _, candidate := range candidates {
					fmt.Fprintln(os.Stdout, formatGenreCandidate(candidate))
				}
				return nil
			}

			for _, candidate := range candidates {
				prompt := promptui.Select{
					Label: formatGenreCandidate(candidate),
					Items: []string{reviewMerge, reviewSkip, reviewStop},
				}
				_, choice, err := prompt.Run()
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("prompt failed: %w", err)
				}

				switch choice {
				case reviewStop:
					return nil
				case reviewSkip:
					continue
				}

				updated, err := services.Books.MergeGenre(ctx, candidate.Merge, candidate.Keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "Merged %q into %q on %d books\n", candidate.Merge, candidate.Keep, updated)
			}
			return nil
		},
	}
	genresCmd.Flags().BoolVar(&review, "review", false, "step through each pair and choose whether to merge it")
	genresCmd.Flags().Float64Var(&genreThreshold, "threshold", 0, "minimum similarity (defaults to the configured threshold)")

	var titleThreshold float64
	titlesCmd := &cobra.Command{
		Use:   "titles",
		Short: "List books whose titles look like the same series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, closeDB, err := openServices()
			if err != nil {
				return err
			}
			defer closeDB()

			threshold := titleThreshold
			if threshold <= 0 {
				threshold = services.Config.Tuning.TitleSimilarityThreshold
			}

			titles, err := services.Books.ListTitles(cmd.Context())
			if err != nil {
				return err
			}
			candidates := similarity.TitleCandidates(titles, threshold)
			if len(candidates) == 0 {
				fmt.Fprintln(os.Stdout, "No similar titles found")
				return nil
			}
			for _, candidate := range candidates {
				fmt.Fprintln(os.Stdout, formatTitleCandidate(candidate))
			}
			return nil
		},
	}
	titlesCmd.Flags().Float64Var(&titleThreshold, "threshold", 0, "minimum similarity (defaults to the configured threshold)")

	similarCmd.AddCommand(genresCmd, titlesCmd)
	rootCmd.AddCommand(similarCmd)
}
