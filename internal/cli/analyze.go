package cli

import (
	"context"
	"fmt"

	"talentnav/internal/common"
	"talentnav/internal/config"
	"talentnav/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [job-description-file]",
	Short: "Analyze a job description into structured requirements",
	Long: `Analyze a job description into a normalized requirement record:
role, required skills, tools, minimum experience, responsibilities, education,
and employment type. This is the first pipeline stage run on its own, useful
for checking what the screener and interview evaluator will match against.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &analyzeConfig)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	addOutputFlags(analyzeCmd, &analyzeConfig)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	pipe, err := newPipeline(cfg, logger, config.OperationAnalyze)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (string, error) {
		return contents[0], nil
	}

	logDetails := func(jobDescription string, cfg common.CommandConfig) {
		logger.Info("Starting job description analysis",
			"job_chars", len(jobDescription),
			"output_format", cfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, jobDescription string) (*types.RequirementRecord, error) {
		return pipe.AnalyzeJD(ctx, jobDescription), nil
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze job description: %w", err)
	}
	logger.Info("Job description analysis completed successfully")
	return nil
}
