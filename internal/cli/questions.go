package cli

import (
	"context"
	"fmt"

	"talentnav/internal/common"
	"talentnav/internal/config"
	"talentnav/internal/pipeline"
	"talentnav/internal/types"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions [job-description-file]",
	Short: "Generate interview questions for a role",
	Long: `Generate focused interview questions for a role from its job
description. Use --title to name the role explicitly and --count to control
how many questions are produced. Without an AI service the questions come
from a deterministic rotating list parameterized by the role.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &questionsConfig)
	},
	RunE: runQuestions,
}

var (
	questionsConfig common.CommandConfig
	questionsTitle  string
	questionsCount  int
)

func init() {
	addOutputFlags(questionsCmd, &questionsConfig)
	questionsCmd.Flags().StringVar(&questionsTitle, "title", "", "Job title for the role")
	questionsCmd.Flags().IntVar(&questionsCount, "count", 5, "Number of questions to generate")
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	generator, err := newGenerator(cfg, logger, config.OperationQuestions)
	if err != nil {
		return err
	}
	questionGen := pipeline.NewQuestionGenerator(generator, cfg, logger)

	createInput := func(contents []string) (string, error) {
		return contents[0], nil
	}

	logDetails := func(jobDescription string, cfg common.CommandConfig) {
		logger.Info("Starting interview question generation",
			"job_chars", len(jobDescription),
			"title", questionsTitle,
			"count", questionsCount,
			"output_format", cfg.OutputFormat)
	}

	questionsOperation := func(ctx context.Context, jobDescription string) (*types.GeneratedQuestions, error) {
		return questionGen.Generate(ctx, questionsTitle, jobDescription, questionsCount), nil
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		questionsConfig,
		args,
		createInput,
		questionsOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate interview questions: %w", err)
	}
	logger.Info("Interview question generation completed successfully")
	return nil
}
