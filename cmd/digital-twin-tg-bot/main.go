package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zaaabik/digital-twin-tg-bot/pkg/bot"
	"github.com/zaaabik/digital-twin-tg-bot/pkg/chatbot"
	"github.com/zaaabik/digital-twin-tg-bot/pkg/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "digital-twin-tg-bot",
	Short:         "Telegram bot relaying conversations to the digital-twin backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

		api := chatbot.NewHTTPClient(cfg.APIAddress, chatbot.WithTimeout(cfg.APITimeout))
		svc, err := bot.NewService(cfg.TelegramToken, api, cfg.SendRate)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return svc.Run(ctx)
		})
		log.Info().Str("version", version).Msg("bot started")
		return g.Wait()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func main() {
	rootCmd.AddCommand(versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
