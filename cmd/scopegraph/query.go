package main

import (
	"github.com/spf13/cobra"

	"scopegraph/internal/store"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the index",
}

func init() {
	queryCmd.AddCommand(filesCmd)
	queryCmd.AddCommand(defsCmd)
	queryCmd.AddCommand(refsCmd)
	queryCmd.AddCommand(unresolvedCmd)
	queryCmd.AddCommand(importsCmd)
	queryCmd.AddCommand(edgesCmd)
	queryCmd.AddCommand(tallyCmd)
}

// withStore opens the database, runs fn, and closes it.
func withStore(fn func(s *store.Store) error) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List indexed files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			files, err := s.ListFiles()
			if err != nil {
				return err
			}
			return outputResult(files)
		})
	},
}

var defsCmd = &cobra.Command{
	Use:   "defs [name]",
	Short: "List definitions, optionally filtered by name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return withStore(func(s *store.Store) error {
			defs, err := s.Definitions(name)
			if err != nil {
				return err
			}
			return outputResult(defs)
		})
	},
}

var refsCmd = &cobra.Command{
	Use:   "refs [name]",
	Short: "List resolved references, optionally filtered by name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return withStore(func(s *store.Store) error {
			refs, err := s.References(name)
			if err != nil {
				return err
			}
			return outputResult(refs)
		})
	},
}

var unresolvedCmd = &cobra.Command{
	Use:   "unresolved",
	Short: "List references that bound to nothing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			refs, err := s.Unresolved()
			if err != nil {
				return err
			}
			return outputResult(refs)
		})
	},
}

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List classified imported namespaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			namespaces, err := s.Namespaces()
			if err != nil {
				return err
			}
			return outputResult(namespaces)
		})
	},
}

var edgesCmd = &cobra.Command{
	Use:   "edges",
	Short: "List import-to-export edges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			edges, err := s.ImportEdges()
			if err != nil {
				return err
			}
			return outputResult(edges)
		})
	},
}

var tallyCmd = &cobra.Command{
	Use:   "tally",
	Short: "Per-file missing/resolved namespace counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			tallies, err := s.Tallies()
			if err != nil {
				return err
			}
			return outputResult(tallies)
		})
	},
}
