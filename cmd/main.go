package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"sensor-combine/models"
	"sensor-combine/utils"
)

// Process exit codes.
const (
	exitOK          = 0
	exitNoInput     = 1 // nothing to work on
	exitFailed      = 2 // every unit failed
	exitUsage       = 64
	exitIO          = 74  // filesystem failure outside a single unit
	exitInterrupted = 130 // cancelled by SIGINT/SIGTERM
)

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var ue *models.UsageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	var ioErr *models.IOError
	if errors.As(err, &ioErr) {
		return exitIO
	}
	return exitFailed
}

// app holds the process streams and the state shared by every command.
type app struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	interactive bool

	verbose    bool
	configPath string
	logFile    string

	cfg    *utils.Config
	logger *utils.Logger
	prompt *prompter
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sensorkit",
		Short: "Extract and combine accelerometer/gyroscope recordings",
		Long: `sensorkit turns zipped phone sensor recordings into one table per activity.

  sensorkit extract   copy accelerometer.csv and gyroscope.csv out of every .zip
  sensorkit combine   join each session's tables on timestamp and write one
                      combined file per activity`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (env SENSORKIT_CONFIG)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "also append log output to this file (env SENSORKIT_LOG_FILE)")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &models.UsageError{Msg: err.Error()}
	})

	root.AddCommand(a.combineCmd(), a.extractCmd())
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return root
}

// setup installs the logger and loads configuration before any subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	re, err := utils.LoadRuntimeEnv()
	if err != nil {
		return &models.UsageError{Msg: err.Error()}
	}
	if a.configPath == "" {
		a.configPath = re.ConfigPath
	}
	if a.logFile == "" {
		a.logFile = re.LogFile
	}

	level := utils.INFO
	if a.verbose {
		level = utils.DEBUG
	}
	a.logger = utils.NewLogger(level, a.stdout, a.stderr, a.logFile)
	utils.SetLogger(a.logger)

	cfg, err := utils.LoadConfig(a.configPath)
	if err != nil {
		return &models.UsageError{Msg: err.Error()}
	}
	a.cfg = cfg
	a.prompt = newPrompter(cmd.InOrStdin(), a.stdout, a.interactive)
	return nil
}

// run executes args and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		if a.logger != nil {
			a.logger.Error("%v", err)
		} else {
			fmt.Fprintln(a.stderr, "Error:", err)
		}
	}
	if a.logger != nil {
		a.logger.Close()
	}
	return exitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	a.interactive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	code := a.run(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}
