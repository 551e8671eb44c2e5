package cli

import (
	"context"
	"fmt"

	"talentnav/internal/common"
	"talentnav/internal/config"
	"talentnav/internal/types"

	"github.com/spf13/cobra"
)

var screenCmd = &cobra.Command{
	Use:   "screen [job-description-file] [resume-file]",
	Short: "Screen a resume against a job description",
	Long: `Screen a resume against the requirements extracted from a job
description. The result is a skill match percentage, the matched and missing
skill lists, and a short comment. When the AI service is unavailable the
match is computed by keyword search over the resume text.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &screenConfig)
	},
	RunE: runScreen,
}

var screenConfig common.CommandConfig

func init() {
	addOutputFlags(screenCmd, &screenConfig)
}

// screenInput holds the two raw inputs of the screening stage.
type screenInput struct {
	JobDescription string
	ResumeText     string
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	pipe, err := newPipeline(cfg, logger, config.OperationAnalyze, config.OperationScreen)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (screenInput, error) {
		return screenInput{
			JobDescription: contents[0],
			ResumeText:     contents[1],
		}, nil
	}

	logDetails := func(input screenInput, cfg common.CommandConfig) {
		logger.Info("Starting resume screening",
			"job_chars", len(input.JobDescription),
			"resume_chars", len(input.ResumeText),
			"output_format", cfg.OutputFormat)
	}

	screenOperation := func(ctx context.Context, input screenInput) (*types.ResumeEvaluation, error) {
		return pipe.ScreenResume(ctx, input.JobDescription, input.ResumeText), nil
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		screenConfig,
		args,
		createInput,
		screenOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to screen resume: %w", err)
	}
	logger.Info("Resume screening completed successfully")
	return nil
}
