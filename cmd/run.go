package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/jobs"
	"github.com/spigell/jobsai/internal/logger"
	"github.com/spigell/jobsai/internal/pipeline"
)

const (
	PromptYes          = "Yes"
	PromptNo           = "No"
	PromptShowTop      = "Show top jobs"
	PromptScoredToFile = "Dump scored jobs to file"
)

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo, PromptShowTop, PromptScoredToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the whole pipeline for an answers file",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("answers", "a", "answers.json", "questionnaire answers file")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before the analysis")
	runCmd.Flags().StringP("exclude-file", "e", "", "file with job urls to exclude. Default is unset.")

	viper.BindPFlag("filters.exclude-file", runCmd.Flags().Lookup("exclude-file"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := mustLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobsai", zap.String("version", currentVersion().Version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	answers, err := readAnswers(cmd.Flag("answers").Value.String())
	if err != nil {
		logger.Fatal("reading answers", zap.Error(err))
	}

	c, err := newComponents(ctx, config, true, logger)
	if err != nil {
		logger.Fatal("preparing components", zap.Error(err))
	}
	defer c.Close()

	var review pipeline.ReviewFunc
	if cmd.Flag("auto-approve").Value.String() == "false" {
		review = reviewer(c.store.Dir, logger)
	}

	p, err := c.pipeline(review)
	if err != nil {
		logger.Fatal("preparing pipeline", zap.Error(err))
	}

	result, err := p.Run(ctx, answers)
	if errors.Is(err, pipeline.ErrAborted) {
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return
	}
	if err != nil {
		// Fatal skips deferred calls.
		c.Close()
		logger.Fatal("run failed", zap.Error(err))
	}

	if result.Letter == nil {
		logger.Info("exiting", zap.String("reason", "no cover letter written"))
		return
	}

	logger.Info("cover letter written",
		zap.String("file", result.Letter.Path),
		zap.Stringer("run_id", result.Run.ID),
	)
}

func mustLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// reviewer asks before the analysis and loops until yes or no.
func reviewer(dir string, logger *zap.Logger) pipeline.ReviewFunc {
	return func(_ context.Context, selected []jobs.Scored) (bool, error) {
		logger.Info("current list of jobs", zap.Int("count", len(selected)))

		for {
			_, action, err := prompt.Run()
			if err != nil {
				return false, err
			}

			proceed, done, err := handleAction(action, dir, logger, selected)
			if err != nil {
				return false, err
			}
			if done {
				return proceed, nil
			}
		}
	}
}

func handleAction(action, dir string, logger *zap.Logger, selected []jobs.Scored) (bool, bool, error) {
	switch action {
	case PromptYes:
		return true, true, nil
	case PromptNo:
		return false, true, nil
	case PromptShowTop:
		for i, job := range selected {
			logger.Info(fmt.Sprintf("%d. %s / %s / %d%%", i+1, job.Title, job.Company, job.Score),
				zap.String("url", job.URL),
				zap.Strings("matched", job.Matched),
			)
		}
		return false, false, nil
	case PromptScoredToFile:
		filename, err := dumpToTmpFile(dir, selected)
		if err != nil {
			return false, false, fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return false, false, nil
	default:
		return false, false, fmt.Errorf("invalid action: %s", action)
	}
}

func dumpToTmpFile(dir string, selected []jobs.Scored) (string, error) {
	file, err := os.CreateTemp(dir, "jobsai-scored-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(selected); err != nil {
		return "", err
	}

	return file.Name(), nil
}
