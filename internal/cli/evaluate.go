package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"talentnav/internal/common"
	"talentnav/internal/config"
	"talentnav/internal/types"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [job-description-file] [resume-file] [interview-qa-file]",
	Short: "Run the full candidate evaluation pipeline",
	Long: `Evaluate a candidate against a job description by running all four
pipeline stages: requirement analysis, resume screening, interview evaluation,
and score aggregation.

The command takes the path to the job description file, the path to the resume
file, and optionally the path to an interview transcript file. The transcript
is a JSON array of {"question": ..., "answer": ...} objects. When the
transcript is omitted the interview stage scores zero and the final
recommendation weighs the resume alone.`,
	Args: cobra.RangeArgs(2, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &evaluateConfig)
	},
	RunE: runEvaluate,
}

var evaluateConfig common.CommandConfig

func init() {
	addOutputFlags(evaluateCmd, &evaluateConfig)
}

// evaluateInput bundles the three raw pipeline inputs read from files.
type evaluateInput struct {
	JobDescription string
	ResumeText     string
	InterviewQA    []types.QA
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	pipe, err := newPipeline(cfg, logger,
		config.OperationAnalyze,
		config.OperationScreen,
		config.OperationInterview,
		config.OperationSummary,
	)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (evaluateInput, error) {
		input := evaluateInput{
			JobDescription: contents[0],
			ResumeText:     contents[1],
		}
		if len(contents) == 3 {
			if err := json.Unmarshal([]byte(contents[2]), &input.InterviewQA); err != nil {
				return evaluateInput{}, fmt.Errorf("failed to parse interview transcript: %w", err)
			}
		}
		return input, nil
	}

	logDetails := func(input evaluateInput, cfg common.CommandConfig) {
		logger.Info("Starting candidate evaluation",
			"job_chars", len(input.JobDescription),
			"resume_chars", len(input.ResumeText),
			"qa_pairs", len(input.InterviewQA),
			"output_format", cfg.OutputFormat)
	}

	evaluateOperation := func(ctx context.Context, input evaluateInput) (*types.PipelineState, error) {
		return pipe.Evaluate(ctx, input.JobDescription, input.ResumeText, input.InterviewQA)
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		evaluateConfig,
		args,
		createInput,
		evaluateOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to evaluate candidate: %w", err)
	}
	logger.Info("Candidate evaluation completed successfully")
	return nil
}
