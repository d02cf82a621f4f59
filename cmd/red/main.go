// Command red is the entry point for the Red terminal text editor.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rededitor/red/internal/editor"
)

var (
	version = "dev"

	configPath    string
	workspacePath string
	readOnly      bool
)

func main() {
	os.Exit(run())
}

func run() int {
	var exitCode int

	rootCmd := &cobra.Command{
		Use:     "red [files...]",
		Short:   "Red is a modal terminal text editor",
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = runEditor(args)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&workspacePath, "workspace", "", "workspace/project directory")
	rootCmd.PersistentFlags().BoolVarP(&readOnly, "readonly", "R", false, "open files in read-only mode")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "red: %v\n", err)
		return 1
	}
	return exitCode
}

func runEditor(files []string) int {
	opts := editor.Options{
		ConfigPath:    configPath,
		WorkspacePath: workspacePath,
		Files:         files,
		ReadOnly:      readOnly,
	}
	if opts.WorkspacePath == "" && len(opts.Files) > 0 {
		if abs, err := filepath.Abs(opts.Files[0]); err == nil {
			opts.WorkspacePath = filepath.Dir(abs)
		}
	}

	ed, err := editor.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "red: failed to initialize: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		ed.Shutdown()
	}()

	err = ed.Run()
	return editor.ExitCode(err)
}
