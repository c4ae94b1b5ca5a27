package shell

import (
	"time"

	"treefs/internal/core"

	"github.com/spf13/cobra"
)

// rootCommand builds a fresh command tree for every line so flag state never
// leaks between lines.
func (s *Shell) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "treefs",
		Short:         "In-memory file system shell",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(s.out)
	root.SetErr(s.out)

	root.AddCommand(
		&cobra.Command{
			Use:   "pwd",
			Short: "Print the current directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s.println(s.ft.CurrentPath())
				return nil
			},
		},
		&cobra.Command{
			Use:   "cd <path>",
			Short: "Change the current directory to an absolute path",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := s.ft.ChangeDirectory(args[0]); err != nil {
					return err
				}
				s.printf("Current directory changed to: %s\n", s.ft.CurrentPath())
				return nil
			},
		},
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List the current directory, directories first",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				listing := s.ft.List()
				if listing.Empty() {
					s.println("Empty directory")
					return nil
				}
				for _, label := range listing.Labels() {
					s.println(label)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:                "touch <name>",
			Short:              "Create a file in the current directory",
			Args:               cobra.ExactArgs(1),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return s.create(args[0], core.KindFile)
			},
		},
		&cobra.Command{
			Use:                "mkdir <name>",
			Short:              "Create a directory in the current directory",
			Args:               cobra.ExactArgs(1),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return s.create(args[0], core.KindDir)
			},
		},
		&cobra.Command{
			Use:                "create <name> f|d",
			Short:              "Create a file (f) or a directory (d) in the current directory",
			Args:               cobra.ExactArgs(2),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				kind, err := core.ParseKind(args[1])
				if err != nil {
					return err
				}
				return s.create(args[0], kind)
			},
		},
		&cobra.Command{
			Use:                "rm <name>",
			Aliases:            []string{"delete"},
			Short:              "Delete a child of the current directory and everything below it",
			Args:               cobra.ExactArgs(1),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := s.ft.Delete(args[0]); err != nil {
					return err
				}
				s.printf("Deleted %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:                "mv <name> <path>",
			Short:              "Move a child of the current directory into the directory at path",
			Args:               cobra.ExactArgs(2),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := s.ft.Move(args[0], args[1]); err != nil {
					return err
				}
				s.printf("Moved %s to %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:                "find <name>",
			Short:              "Search the whole tree for an element by name",
			Args:               cobra.ExactArgs(1),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				found, err := s.ft.Find(args[0])
				if err != nil {
					if core.IsNotFound(err) {
						s.println("Not found")
						return nil
					}
					return err
				}
				s.printf("Found: %s\n", found.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "stat <path>",
			Short: "Show the kind and creation time of the element at path",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := s.ft.Lookup(args[0])
				if err != nil {
					return err
				}
				s.printf("%s\t%s\t%s\n", e.Kind(), e.Path(), e.CreatedAt().Format(time.RFC3339))
				return nil
			},
		},
		&cobra.Command{
			Use:   "glob <pattern>",
			Short: "List every path matching a glob pattern (e.g. '**/*.txt', '**/*.txt,!tmp/**')",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				matches, err := s.ft.Glob(args[0])
				if err != nil {
					return err
				}
				if len(matches) == 0 {
					s.println("No matches")
					return nil
				}
				for _, e := range matches {
					s.println(e.Path())
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "tree",
			Short: "Print the whole tree",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, line := range s.ft.PrintTree() {
					s.println(line)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "sort [name|created]",
			Short: "Sort the current directory by name (default) or creation time",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var raw string
				if len(args) == 1 {
					raw = args[0]
				}
				order, err := core.ParseSortOrder(raw)
				if err != nil {
					return err
				}
				if err := s.ft.Sort(order); err != nil {
					return err
				}
				s.printf("Contents sorted by %s\n", order)
				return nil
			},
		},
		&cobra.Command{
			Use:     "exit",
			Aliases: []string{"quit"},
			Short:   "Leave the shell",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ErrExit
			},
		},
	)

	return root
}

func (s *Shell) create(name string, kind core.Kind) error {
	e, err := s.ft.Create(name, kind)
	if err != nil {
		return err
	}
	s.printf("Created %s %s\n", kind, e.Path())
	return nil
}
