package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the questionnaire endpoint over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", server.DefaultListen, "address to listen on")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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

	// Nobody is at a terminal to answer a review prompt.
	p, err := c.pipeline(nil)
	if err != nil {
		logger.Fatal("preparing pipeline", zap.Error(err))
	}

	logger.Info("starting the jobsai server", zap.String("version", currentVersion().Version), zap.String("listen", config.Server.Listen))

	if err := server.New(config.Server.Listen, p, logger).Run(ctx); err != nil {
		c.Close()
		logger.Fatal("server stopped", zap.Error(err))
	}

	logger.Info("server stopped")
}
