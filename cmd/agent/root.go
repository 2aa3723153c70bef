package agent

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diskstats-collector/internal/server"
	"github.com/diskstats-collector/pkg/config"
	"github.com/diskstats-collector/pkg/logger"
	"github.com/diskstats-collector/pkg/registers"
	"github.com/diskstats-collector/pkg/util"
)

var (
	cfgFile   string
	GlobalCfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "diskstats-collector",
	Short: "Linux block-device I/O metrics collector with Prometheus exposure",
	RunE: func(cmd *cobra.Command, args []string) error {
		var err error
		GlobalCfg, err = config.LoadConfigWithCli(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "check the config file path or pass it with -c\n")
			os.Exit(1)
		}
		if err := runServer(cmd.Context(), GlobalCfg); err != nil {
			fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "config file path")
	initServerFlags(rootCmd)
	initMonitorFlags(rootCmd)
	initLogFlags(rootCmd)
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if _, err := logger.InitLogger(&cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	util.PrintBanner("diskstats", "ColorBlue")
	logger.Info("configuration loaded",
		zap.String("config", cfgFile),
		zap.Duration("interval", cfg.Monitor.Interval),
		zap.String("diskstats_path", cfg.Monitor.Collectors.Disk.Path))

	const enableProcess = true
	registry, agent, err := registers.InitPromRegistry(ctx, enableProcess, cfg)
	if err != nil {
		return fmt.Errorf("init collectors: %w", err)
	}

	httpServer := server.NewHTTPServer(cfg.Server, registry)
	if err := httpServer.Start(); err != nil {
		return fmt.Errorf("start HTTP server: %w", err)
	}

	server.WaitForShutdown(func() error {
		if err := httpServer.Shutdown(); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		if err := agent.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("shutdown collector agent: %w", err)
		}
		logger.Info("all services shutdown successfully")
		return nil
	})
	return nil
}
