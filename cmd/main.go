package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"course-rag/internal/config"
)

var configFilePath string

var rootCmd = &cobra.Command{
	Use:   "course-rag",
	Short: "Retrieval-augmented FAQ chatbot over scraped course pages",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFilePath, "config", "./configs/config.yaml", "Path to the config file")
}

func loadConfig() (*config.Config, error) {
	config.LoadEnv()
	return config.LoadConfig(configFilePath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
