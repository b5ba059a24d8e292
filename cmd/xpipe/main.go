package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacoelho/xpipe"
)

func main() {
	defaults, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "xpipe:", err)
		os.Exit(1)
	}
	if err := newRootCommand(defaults).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(defaults settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xpipe [flags] command [args...]",
		Short: "Split a byte stream into line chunks piped to a command",
		Long: `xpipe reads standard input into a bounded buffer and pipes complete
lines to a fresh invocation of command. Data without a trailing newline
is piped once the read timeout elapses with nothing new arriving, or
once the input ends. The command's stdout and stderr pass through
unchanged.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	flags := cmd.Flags()
	// The child argv must pass through untouched, so flag parsing stops
	// at the first non-flag argument.
	flags.SetInterspersed(false)
	flags.IntP("buffer-size", "b", defaults.BufferSize, "accumulation buffer capacity in bytes")
	flags.IntP("timeout", "t", defaults.Timeout, "seconds of quiet before piping data without a newline (0 waits forever)")
	flags.String("log-level", defaults.LogLevel, "log level: debug|info|warn|error")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	bufferSize, _ := cmd.Flags().GetInt("buffer-size")
	timeoutSec, _ := cmd.Flags().GetInt("timeout")
	logLevel, _ := cmd.Flags().GetString("log-level")

	if bufferSize <= 0 {
		return fmt.Errorf("invalid --buffer-size %d: must be positive", bufferSize)
	}
	if timeoutSec < 0 {
		return fmt.Errorf("invalid --timeout %d: must be zero or positive", timeoutSec)
	}

	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	runner, err := xpipe.New(xpipe.Config{
		BufferSize: bufferSize,
		Timeout:    time.Duration(timeoutSec) * time.Second,
		Command:    args,
	}, xpipe.WithLogger(logger))
	if err != nil {
		return err
	}
	return runner.Run()
}
