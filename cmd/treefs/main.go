package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"treefs/internal/core"
	"treefs/internal/shell"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/k0kubun/go-ansi"
	"github.com/spf13/cobra"
)

var version = "dev"

const banner = "==== File System Management ===="

func main() {
	var seedPath string
	var noColor bool
	var verboseMode bool

	var rootCmd = &cobra.Command{
		Use:   "treefs",
		Short: "Interactive in-memory file system",
		Long:  "Interactive in-memory file system\n\nReads commands from stdin; type 'help' for the list.\n\nExit codes:\n  0 - Success\n  1 - Startup error",
		Args:  cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verboseMode {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			if seedPath == "" {
				seedPath = os.Getenv("TREEFS_SEED")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := loadTree(seedPath)
			if err != nil {
				return err
			}

			var out io.Writer = ansi.NewAnsiStdout()
			if noColor {
				out = os.Stdout
				fmt.Fprintln(out, banner)
			} else {
				fmt.Fprintf(out, "\033[31m%s\033[0m\n", banner)
			}

			sh := shell.New(ft, out)
			sh.ShowPrompt = true
			return sh.Run(os.Stdin)
		},
	}

	rootCmd.Flags().StringVarP(&seedPath, "seed", "s", "", "Directory on disk to copy the initial tree from (defaults to TREEFS_SEED env var)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "Enable debug logging on stderr")

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "Print the version number of treefs",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("treefs version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadTree(seedPath string) (*core.Filetree, error) {
	if seedPath == "" {
		return core.New(), nil
	}

	ft, err := core.BuildFiletree(osfs.New(seedPath), "/")
	if err != nil {
		return nil, err
	}
	slog.Info("tree seeded", "path", seedPath, "elements", ft.Size())
	return ft, nil
}
