package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/profile"
)

var jobLevels = []string{"Internship", "Junior", "Mid-level", "Senior", "Lead"}

var questionnaireCmd = &cobra.Command{
	Use:   "questionnaire",
	Short: "Answer the questionnaire interactively and write an answers file",
	Run: func(cmd *cobra.Command, _ []string) {
		questionnaire(cmd)
	},
}

func init() {
	rootCmd.AddCommand(questionnaireCmd)

	questionnaireCmd.Flags().StringP("output", "o", "answers.json", "where to write the answers")
}

func questionnaire(cmd *cobra.Command) {
	logger := mustLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	answers, err := ask(config)
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	if err := answers.Validate(); err != nil {
		logger.Fatal("answers are not valid", zap.Error(err))
	}

	data, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		logger.Fatal("encoding answers", zap.Error(err))
	}

	output := cmd.Flag("output").Value.String()
	if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
		logger.Fatal("writing answers", zap.Error(err))
	}

	logger.Info("answers written", zap.String("filename", output))
}

func ask(config *Config) (profile.Answers, error) {
	var answers profile.Answers

	_, level, err := (&promptui.Select{Label: "Job level", Items: jobLevels}).Run()
	if err != nil {
		return answers, err
	}
	answers.JobLevels = []string{level}

	boards := strings.Join(config.JobBoards, ", ")
	if boards == "" {
		boards = "Duunitori, Jobly"
	}
	if answers.JobBoards, err = askList("Job boards", boards); err != nil {
		return answers, err
	}

	_, deep, err := (&promptui.Select{Label: "Deep mode (read full descriptions)", Items: []string{"No", "Yes"}}).Run()
	if err != nil {
		return answers, err
	}
	answers.DeepMode = deep == "Yes"

	count := config.CoverLetterNum
	if count <= 0 {
		count = profile.DefaultLetterCount
	}
	countPrompt := promptui.Prompt{
		Label:   "Jobs to analyze",
		Default: strconv.Itoa(count),
		Validate: func(input string) error {
			n, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || n < 1 {
				return errors.New("a positive number is required")
			}
			return nil
		},
	}
	value, err := countPrompt.Run()
	if err != nil {
		return answers, err
	}
	answers.CoverLetterNum, _ = strconv.Atoi(strings.TrimSpace(value))

	style := config.LetterStyle
	if style == "" {
		style = profile.DefaultLetterStyle
	}
	if answers.CoverLetterStyle, err = (&promptui.Prompt{Label: "Cover letter style", Default: style}).Run(); err != nil {
		return answers, err
	}

	for _, name := range profile.Categories {
		category, err := askCategory(name)
		if err != nil {
			return answers, err
		}
		if len(category.Items) > 0 {
			answers.Categories = append(answers.Categories, category)
		}
	}

	info, err := (&promptui.Prompt{Label: "Anything else about you (optional)"}).Run()
	if err != nil {
		return answers, err
	}
	if info = strings.TrimSpace(info); info != "" {
		answers.AdditionalInfo = []string{info}
	}

	return answers, nil
}

func askCategory(name string) (profile.Category, error) {
	category := profile.Category{Name: name}

	keys, err := askList(fmt.Sprintf("%s (comma separated, empty to skip)", name), "")
	if err != nil {
		return category, err
	}

	levels := make([]string, 0, 7)
	for i := 1; i <= 7; i++ {
		levels = append(levels, fmt.Sprintf("%d: %s", i, profile.LevelPhrase(i)))
	}

	for _, key := range keys {
		idx, _, err := (&promptui.Select{Label: "Experience with " + key, Items: levels}).Run()
		if err != nil {
			return category, err
		}
		category.Items = append(category.Items, profile.Technology{
			Key:   strings.ToLower(key),
			Level: idx + 1,
		})
	}

	return category, nil
}

func askList(label, def string) ([]string, error) {
	value, err := (&promptui.Prompt{Label: label, Default: def}).Run()
	if err != nil {
		return nil, err
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items, nil
}
