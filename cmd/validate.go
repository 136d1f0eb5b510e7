package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ethpandaops/cubeplan/pkg/cube"
	"github.com/ethpandaops/cubeplan/pkg/planner"
	"github.com/ethpandaops/cubeplan/pkg/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrValidationFailed is returned when any container fails to plan
	ErrValidationFailed = errors.New("validation failed")
	// ErrNoReports is returned when there is nothing to validate
	ErrNoReports = errors.New("no report files given or configured")
)

// validateCmd plans every container of the given report files
//
//nolint:gochecknoglobals // Cobra commands are typically global
var validateCmd = &cobra.Command{
	Use:   "validate [report...]",
	Short: "Validate that report containers can be planned",
	Long:  `Plan every container of the given report files, or the configured ones, in both render and live preview modes.`,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

type containerResult struct {
	file      string
	container string
	err       error
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, repo, err := setup(cmd)
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		files = cfg.Reports
	}
	if len(files) == 0 {
		return ErrNoReports
	}

	results, err := validateReports(repo, files, cfg.Concurrency)
	if err != nil {
		return err
	}

	errorCount := 0
	for _, res := range results {
		if res.err != nil {
			errorCount++
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✗ %s/%s: %v\n", res.file, res.container, res.err)
			continue
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s/%s: valid\n", res.file, res.container)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%d valid, %d errors\n", len(results)-errorCount, errorCount)

	if errorCount > 0 {
		return fmt.Errorf("%w: %d errors", ErrValidationFailed, errorCount)
	}

	return nil
}

// validateReports plans the containers of each file concurrently. A file that cannot be loaded
// fails the run; a container that cannot be planned is reported in its result.
func validateReports(repo *cube.Repository, files []string, concurrency int) ([]containerResult, error) {
	p := planner.New(logger, repo)
	perFile := make([][]containerResult, len(files))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			file, err := report.LoadFile(path)
			if err != nil {
				return err
			}

			for _, c := range file.Containers {
				res := containerResult{file: path, container: c.Name}
				for _, mode := range []planner.Mode{planner.ModeRender, planner.ModeLivePreview} {
					if _, planErr := p.CreatePlan(c, mode); planErr != nil {
						res.err = fmt.Errorf("%s: %w", mode, planErr)
						break
					}
				}
				perFile[i] = append(perFile[i], res)
			}

			logger.WithFields(logrus.Fields{
				"file":       path,
				"containers": len(file.Containers),
			}).Debug("Validated report")

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []containerResult
	for _, fileResults := range perFile {
		results = append(results, fileResults...)
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].file < results[b].file
	})

	return results, nil
}
