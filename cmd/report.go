package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/profile"
	"github.com/spigell/jobsai/internal/report"
)

const scoredSuffix = "_scored_jobs.json"

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the job report for the latest scored listings",
	Run: func(cmd *cobra.Command, _ []string) {
		writeReport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntP("size", "n", 0, "number of jobs to report on (default report-size, then cover-letter-num)")
}

func writeReport(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := mustLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	c, err := newComponents(ctx, config, true, logger)
	if err != nil {
		logger.Fatal("preparing components", zap.Error(err))
	}
	defer c.Close()

	name, err := c.store.Latest(artifacts.Scored, scoredSuffix)
	if err != nil {
		c.Close()
		logger.Fatal("looking up scored listings", zap.Error(err))
	}
	if name == "" {
		logger.Info("exiting", zap.String("reason", "no scored listings found"))
		return
	}

	skills, err := c.profiles.Latest()
	if err != nil {
		c.Close()
		logger.Fatal("loading skill profile", zap.Error(err))
	}
	if skills == nil {
		logger.Warn("no skill profile saved yet, reporting against an empty one")
		skills = &profile.SkillProfile{}
	}

	size, _ := cmd.Flags().GetInt("size")
	if size <= 0 {
		size = config.ReportSize
	}
	if size <= 0 {
		size = config.CoverLetterNum
	}
	if size <= 0 {
		size = profile.DefaultLetterCount
	}

	run := artifacts.NewRun(time.Now())
	text, err := report.NewReporter(c.client, c.store, c.maxTokens(), logger).GenerateFrom(ctx, run, name, *skills, size)
	if err != nil {
		c.Close()
		logger.Fatal("writing report", zap.Error(err))
	}
	if text == "" {
		logger.Info("exiting", zap.String("reason", "nothing to report"))
		return
	}

	fmt.Println(text)
	logger.Info("report written", zap.String("file", c.store.Path(artifacts.Reports, artifacts.ReportName(run))))
}
