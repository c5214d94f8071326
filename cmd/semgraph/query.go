package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/semgraph/semgraph"
	"github.com/semgraph/semgraph/internal/block"
	"github.com/semgraph/semgraph/internal/errorx"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/query"
)

// queryInputs are the file/directory input flags every query subcommand
// shares, mirroring analyze's -f/-d/--lang surface.
type queryInputs struct {
	files   []string
	dirs    []string
	lang    string
	include []string
	exclude []string
}

func (q *queryInputs) bind(flags *pflag.FlagSet) {
	flags.StringSliceVarP(&q.files, "file", "f", nil, "source file to analyze (repeatable)")
	flags.StringSliceVarP(&q.dirs, "dir", "d", nil, "directory to analyze recursively (repeatable)")
	flags.StringVar(&q.lang, "lang", "", "force every discovered file to this language")
	flags.StringSliceVar(&q.include, "include", nil, "glob patterns a discovered file must match (repeatable)")
	flags.StringSliceVar(&q.exclude, "exclude", nil, "glob patterns a discovered file must not match (repeatable)")
}

func (q *queryInputs) engine() (*query.Engine, error) {
	logger, err := buildLogger()
	if err != nil {
		return nil, err
	}
	graph, err := semgraph.Build(semgraph.Options{
		Files:        q.files,
		Dirs:         q.dirs,
		Lang:         q.lang,
		IncludeGlobs: q.include,
		ExcludeGlobs: q.exclude,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	return query.New(graph), nil
}

func newQueryCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "query",
		Short: "Answer a read-only question against the project graph",
	}

	root.AddCommand(
		newNameQueryCmd("by-name", "every block named <name>", func(e *query.Engine, arg string) query.Result { return e.ByName(arg) }),
		newKindQueryCmd(),
		newFileStructureCmd(),
		newNameQueryCmd("related", "a block's direct neighbors", func(e *query.Engine, arg string) query.Result { return e.Related(arg) }),
		newNameQueryCmd("related-recursive", "a block's transitive neighbors", func(e *query.Engine, arg string) query.Result { return e.RelatedRecursive(arg) }),
		newNameQueryCmd("find-depended", "every block that depends on <name>", func(e *query.Engine, arg string) query.Result { return e.FindDepended(arg) }),
		newNameQueryCmd("find-depends", "every block <name> depends on", func(e *query.Engine, arg string) query.Result { return e.FindDepends(arg) }),
	)
	return root
}

// newNameQueryCmd builds a one-argument, name-keyed query subcommand; every
// spec.md §4.L query except by-kind and file-structure takes exactly one
// name argument and returns a query.Result the caller formats the same way.
func newNameQueryCmd(use, short string, run func(*query.Engine, string) query.Result) *cobra.Command {
	var in queryInputs
	cmd := &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := in.engine()
			if err != nil {
				return err
			}
			result := run(engine, args[0])
			_, err = cmd.OutOrStdout().Write([]byte(result.Format()))
			return err
		},
	}
	in.bind(cmd.Flags())
	return cmd
}

func newKindQueryCmd() *cobra.Command {
	var in queryInputs
	cmd := &cobra.Command{
		Use:   "by-kind <kind>",
		Short: "every block of the given kind (func, struct, class, ...)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := parseKind(args[0])
			if !ok {
				return errorx.New(errorx.InvalidArgument, "query.by-kind").With("kind", args[0])
			}
			engine, err := in.engine()
			if err != nil {
				return err
			}
			result := engine.ByKind(kind)
			_, err = cmd.OutOrStdout().Write([]byte(result.Format()))
			return err
		},
	}
	in.bind(cmd.Flags())
	return cmd
}

func newFileStructureCmd() *cobra.Command {
	var in queryInputs
	cmd := &cobra.Command{
		Use:   "file-structure <unit-index>",
		Short: "a unit's block tree, rooted at its file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errorx.Wrap(errorx.InvalidArgument, "query.file-structure", err).With("unit", args[0])
			}
			engine, err := in.engine()
			if err != nil {
				return err
			}
			result := engine.FileStructure(ids.UnitIndex(n))
			_, err = cmd.OutOrStdout().Write([]byte(result.Format()))
			return err
		},
	}
	in.bind(cmd.Flags())
	return cmd
}

// parseKind maps a CLI-friendly, lowercase kind name to block.Kind.
func parseKind(s string) (block.Kind, bool) {
	switch strings.ToLower(s) {
	case "root":
		return block.Root, true
	case "module":
		return block.Module, true
	case "class":
		return block.Class, true
	case "struct":
		return block.Struct, true
	case "trait":
		return block.Trait, true
	case "interface":
		return block.Interface, true
	case "enum":
		return block.Enum, true
	case "func", "function":
		return block.Func, true
	case "method":
		return block.Method, true
	case "field":
		return block.Field, true
	case "variable":
		return block.Variable, true
	case "const":
		return block.Const, true
	case "call":
		return block.Call, true
	case "scope":
		return block.Scope, true
	case "return":
		return block.Return, true
	default:
		return block.Unknown, false
	}
}
