package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mrdg/audiograph/audio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:          "audiograph",
		Short:        "Play tones and samples and change them while they play",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default ./audiograph.yaml)")
	flags.String("backend", defaults.Backend, "audio backend: "+strings.Join(playerBackends, ", "))
	flags.Float64("sample-rate", defaults.SampleRate, "sample rate in Hz")
	flags.Int("block-size", defaults.BlockSize, "frames per audio callback")
	flags.Int("channels", defaults.Channels, "output channels")
	flags.Int("max-nodes", defaults.MaxNodes, "maximum number of sounds playing at once")
	flags.Duration("update-interval", defaults.UpdateInterval, "how often new sounds are attached")
	flags.String("log-level", defaults.LogLevel, "debug, info, warn or error")
	flags.String("scene", "", "yaml file with sounds to play at startup")
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	return cmd
}

func run(ctx context.Context, cfg Config) error {
	level, err := cfg.logLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	backend, err := audio.OpenBackend(cfg.Backend, cfg.backendConfig())
	if err != nil {
		return fmt.Errorf("open audio backend %s: %w", cfg.Backend, err)
	}
	engine, err := audio.NewEngineSize(backend, cfg.MaxNodes)
	if err != nil {
		backend.Close()
		return err
	}
	defer engine.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	binder := audio.NewBinder(engine)
	go binder.Run(ctx, cfg.UpdateInterval)

	env := newEnv(engine, binder)
	defer env.close()

	if cfg.Scene != "" {
		scene, err := loadScene(cfg.Scene)
		if err != nil {
			return err
		}
		if err := env.playScene(scene); err != nil {
			return err
		}
	}
	return repl(env)
}
