package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	port          string
	configPath    string
	questionsPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	if envPort == "" {
		envPort = "9000"
	}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	envQuestions := os.Getenv("QUESTIONS_FILE")
	if envQuestions == "" {
		envQuestions = "questions.txt"
	}

	cmd := &cobra.Command{
		Use:   "quiznet",
		Short: "Real-time multiplayer trivia server over a line-based TCP protocol",
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "TCP port to listen on")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&questionsPath, "questions", envQuestions, "path to the questions file")
	cmd.AddCommand(NewServeCmd(&configPath, &port, &questionsPath))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
