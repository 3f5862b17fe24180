package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ehrlich-b/reversi/internal/console"
	"github.com/ehrlich-b/reversi/internal/discovery"
	"github.com/ehrlich-b/reversi/internal/logger"
	"github.com/ehrlich-b/reversi/internal/rconfig"
	"github.com/ehrlich-b/reversi/internal/session"
	"github.com/ehrlich-b/reversi/internal/transport"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "reversi",
		Short: "a two-player networked Othello",
		Long:  "Discovers a peer over LAN broadcast and plays a line-protocol game of Othello against it.",
	}
	root.AddCommand(playCmd(), hotseatCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func playCmd() *cobra.Command {
	var broadcastAddr string
	var broadcastPort int
	var discoverWindow float64
	var configPath string
	var logLevel string
	var logFile string
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "discover a peer over LAN and play a networked game",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				p, err := rconfig.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			fromFile, err := rconfig.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			flags := rconfig.Config{
				BroadcastAddr:  broadcastAddr,
				BroadcastPort:  broadcastPort,
				DiscoverWindow: discoverWindow,
				LogLevel:       logLevel,
				LogFile:        logFile,
				LogJSON:        logJSON,
			}
			cfg := flags.Merge(fromFile).Merge(rconfig.Defaults())

			if cfg.BroadcastAddr == "" {
				return fmt.Errorf("--broadcast-addr is required (or set broadcast_addr in %s)", path)
			}

			if err := logger.Init(cfg.LogLevel, cfg.LogFile, cfg.LogJSON); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			watcher, err := rconfig.NewWatcher(path)
			if err != nil {
				return fmt.Errorf("watch config: %w", err)
			}
			defer watcher.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			return runPlay(ctx, cfg, flags, watcher)
		},
	}

	cmd.Flags().StringVar(&broadcastAddr, "broadcast-addr", "", "IPv4 broadcast address to advertise/listen on (required)")
	cmd.Flags().IntVar(&broadcastPort, "broadcast-port", 0, "UDP port for discovery (default 9000)")
	cmd.Flags().Float64Var(&discoverWindow, "discover-window", 0, "seconds per discovery round (default 5.0)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to reversi.yaml (default ~/.reversi/reversi.yaml)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (default info)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this file")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON instead of text")

	return cmd
}

func runPlay(ctx context.Context, cfg, flags rconfig.Config, watcher *rconfig.Watcher) error {
	discCfg := discovery.Config{
		BroadcastAddr: cfg.BroadcastAddr,
		BroadcastPort: cfg.BroadcastPort,
		Window:        secondsToDuration(cfg.DiscoverWindow),
	}

	fmt.Printf("looking for a peer on %s:%d...\n", cfg.BroadcastAddr, cfg.BroadcastPort)
	result, err := discovery.DiscoverAndConnect(ctx, discCfg)
	if err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	fmt.Printf("connected as %s (%s) vs %s\n", result.Role, result.Role.Colour(), result.PeerAddr)

	// Discovery can block for a while waiting for a peer; pick up any
	// log-level/session-timeout edits made to the config file while we
	// waited, same as playCmd resolved them originally (flag > file >
	// default). This never touches the round already in flight, only
	// the one about to start.
	sessionCfg := flags.Merge(watcher.Current()).Merge(rconfig.Defaults())
	if sessionCfg.LogLevel != cfg.LogLevel {
		if err := logger.Init(sessionCfg.LogLevel, cfg.LogFile, cfg.LogJSON); err != nil {
			return fmt.Errorf("reload logger: %w", err)
		}
	}

	conn := transport.New(result.Conn)
	conn.SetTimeout(secondsToDuration(sessionCfg.SessionTimeout))

	role := session.RoleP2
	if result.Role == discovery.P1 {
		role = session.RoleP1
	}

	driver := session.New(conn, role, console.New())
	status, err := driver.Run()
	logger.Info("session ended", "status", status.String())
	if err != nil && status != session.StatusOK {
		return fmt.Errorf("session ended (%s): %w", status, err)
	}
	return nil
}

func hotseatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hotseat",
		Short: "play a local two-player game with no network component",
		RunE: func(cmd *cobra.Command, args []string) error {
			black, white := session.RunHotseat(console.New())
			fmt.Printf("final score: black %d - white %d\n", black, white)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the reversi version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
