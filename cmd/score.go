package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score every raw listing in the data directory against an answers file",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("answers", "a", "answers.json", "questionnaire answers file")
}

func score(cmd *cobra.Command) {
	logger := mustLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	answers, err := readAnswers(cmd.Flag("answers").Value.String())
	if err != nil {
		logger.Fatal("reading answers", zap.Error(err))
	}

	mode, err := scoring.ParseMode(config.Scoring.Mode)
	if err != nil {
		logger.Fatal("parsing scoring mode", zap.Error(err))
	}

	c, err := newComponents(context.Background(), config, false, logger)
	if err != nil {
		logger.Fatal("preparing components", zap.Error(err))
	}
	defer c.Close()

	listings, err := scoring.LoadRaw(c.store, logger)
	if err != nil {
		c.Close()
		logger.Fatal("loading raw listings", zap.Error(err))
	}
	if len(listings) == 0 {
		logger.Info("exiting", zap.String("reason", "no raw listings found"))
		return
	}

	var agentic []string
	if p, err := c.profiles.Latest(); err == nil && p != nil {
		agentic = p.AgenticAIExperience
	}

	scored := scoring.New(mode, agentic, logger).Score(listings, scoring.Flatten(answers.Categories))

	run := artifacts.NewRun(time.Now())
	path, err := c.store.WriteJSON(artifacts.Scored, artifacts.ScoredName(run), scored)
	if err != nil {
		c.Close()
		logger.Fatal("saving scored listings", zap.Error(err))
	}

	logger.Info("scored listings saved", zap.String("path", path), zap.Int("count", len(scored)))
}
