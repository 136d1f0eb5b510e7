package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethpandaops/cubeplan/pkg/cube"
	"github.com/ethpandaops/cubeplan/pkg/explain"
	"github.com/ethpandaops/cubeplan/pkg/plancache"
	"github.com/ethpandaops/cubeplan/pkg/planner"
	"github.com/ethpandaops/cubeplan/pkg/query"
	r "github.com/ethpandaops/cubeplan/pkg/redis"
	"github.com/ethpandaops/cubeplan/pkg/report"
	"github.com/spf13/cobra"
)

// ErrUnknownContainer is returned when a named container is not in the report
var ErrUnknownContainer = errors.New("container not found in report")

// planCmd prints query plans as JSON
//
//nolint:gochecknoglobals // Cobra commands are typically global
var planCmd = &cobra.Command{
	Use:   "plan <report> [container...]",
	Short: "Print the query plans of report containers",
	Long:  `Plan every container of a report file, or only the named ones, and print the definitions as JSON.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlan,
}

// explainCmd prints query plans as text
//
//nolint:gochecknoglobals // Cobra commands are typically global
var explainCmd = &cobra.Command{
	Use:   "explain <report> [container...]",
	Short: "Explain the query plans of report containers",
	Long:  `Plan containers of a report file and render each definition with the explain template.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExplain,
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(explainCmd)

	for _, c := range []*cobra.Command{planCmd, explainCmd} {
		c.Flags().String("mode", "render", "planning mode (render, live-preview)")
		c.Flags().Bool("no-cache", false, "bypass the Redis plan cache")
	}
	explainCmd.Flags().String("template", "", "explain template file (overrides the config)")
}

type plannedContainer struct {
	container *report.Container
	def       query.Definition
}

func planContainers(cmd *cobra.Command, cfg *CLIConfig, repo *cube.Repository, args []string) ([]plannedContainer, error) {
	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, err := planner.ParseMode(modeFlag)
	if err != nil {
		return nil, err
	}

	file, err := report.LoadFile(args[0])
	if err != nil {
		return nil, err
	}

	containers := file.Containers
	if len(args) > 1 {
		containers = make([]*report.Container, 0, len(args)-1)
		for _, name := range args[1:] {
			c, ok := file.Container(name)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownContainer, name)
			}
			containers = append(containers, c)
		}
	}

	create, closeFn, err := newPlanFunc(cmd, cfg, repo)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	planned := make([]plannedContainer, 0, len(containers))
	for _, c := range containers {
		def, planErr := create(ctx, c, mode)
		if planErr != nil {
			return nil, planErr
		}
		planned = append(planned, plannedContainer{container: c, def: def})
	}

	return planned, nil
}

type planFunc func(ctx context.Context, container *report.Container, mode planner.Mode) (query.Definition, error)

// newPlanFunc returns the planner, wrapped with the Redis cache when one is configured
func newPlanFunc(cmd *cobra.Command, cfg *CLIConfig, repo *cube.Repository) (planFunc, func(), error) {
	p := planner.New(logger, repo)

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if noCache || !cfg.Redis.Enabled() {
		return func(_ context.Context, c *report.Container, mode planner.Mode) (query.Definition, error) {
			return p.CreatePlan(c, mode)
		}, func() {}, nil
	}

	client, err := r.NewClient(&cfg.Redis)
	if err != nil {
		return nil, nil, err
	}

	cp := plancache.NewCachingPlanner(logger, p, plancache.New(logger, client, &cfg.Redis), repo)
	closeFn := func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.WithError(closeErr).Error("Failed to close Redis client")
		}
	}

	return cp.CreatePlan, closeFn, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, repo, err := setup(cmd)
	if err != nil {
		return err
	}

	planned, err := planContainers(cmd, cfg, repo, args)
	if err != nil {
		return err
	}

	for _, pc := range planned {
		out, marshalErr := json.MarshalIndent(struct {
			Container string           `json:"container"`
			Kind      query.Kind       `json:"kind"`
			Plan      query.Definition `json:"plan"`
		}{pc.container.Name, pc.def.Kind(), pc.def}, "", "  ")
		if marshalErr != nil {
			return marshalErr
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}

	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg, repo, err := setup(cmd)
	if err != nil {
		return err
	}

	templatePath, _ := cmd.Flags().GetString("template")
	if templatePath == "" {
		templatePath = cfg.Explain.Template
	}

	renderer, err := explain.LoadRenderer(templatePath)
	if err != nil {
		return err
	}

	planned, err := planContainers(cmd, cfg, repo, args)
	if err != nil {
		return err
	}

	for _, pc := range planned {
		graph, graphErr := planner.ReferenceGraph(pc.container)
		if graphErr != nil {
			return graphErr
		}

		out, renderErr := renderer.Render(pc.def, graph)
		if renderErr != nil {
			return fmt.Errorf("failed to explain %s: %w", pc.container.Name, renderErr)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
	}

	return nil
}
