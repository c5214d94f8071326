package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/semgraph/semgraph"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		files          []string
		dirs           []string
		lang           string
		include        []string
		exclude        []string
		printIR        bool
		printBlock     bool
		graph          bool
		depth          int
		pagerankTopK   int
		clusterByCrate bool
		shortLabels    bool
		noReduce       bool
		interproc      bool
		out            string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Build the project graph and render a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := buildLogger()
			if err != nil {
				return err
			}
			report, err := semgraph.Run(semgraph.Options{
				Files:          files,
				Dirs:           dirs,
				Lang:           lang,
				IncludeGlobs:   include,
				ExcludeGlobs:   exclude,
				Interprocedural: interproc,
				PrintIR:        printIR,
				PrintBlock:     printBlock,
				Graph:          graph,
				Depth:          depth,
				PagerankTopK:   pagerankTopK,
				ClusterByCrate: clusterByCrate,
				ShortLabels:    shortLabels,
				NoReduce:       noReduce,
				Logger:         logger,
			})
			if err != nil {
				return err
			}
			return writeReport(cmd, out, report)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&files, "file", "f", nil, "source file to analyze (repeatable)")
	flags.StringSliceVarP(&dirs, "dir", "d", nil, "directory to analyze recursively (repeatable)")
	flags.StringVar(&lang, "lang", "", "force every discovered file to this language (rust, typescript, cpp, python)")
	flags.StringSliceVar(&include, "include", nil, "glob patterns a discovered file must match (repeatable)")
	flags.StringSliceVar(&exclude, "exclude", nil, "glob patterns a discovered file must not match (repeatable)")
	flags.BoolVar(&printIR, "print-ir", false, "dump every unit's HIR tree")
	flags.BoolVar(&printBlock, "print-block", false, "dump the project's block graph")
	flags.BoolVar(&graph, "graph", false, "render the project's DOT dependency graph")
	flags.IntVar(&depth, "depth", 3, "DOT aggregation depth: 0=project, 1=package, 2=module, 3=file")
	flags.IntVar(&pagerankTopK, "pagerank-top-k", 0, "keep only the top K blocks by PageRank in the DOT output (0 = unlimited)")
	flags.BoolVar(&clusterByCrate, "cluster-by-crate", false, "group DOT module-depth nodes into per-crate clusters")
	flags.BoolVar(&shortLabels, "short-labels", false, "use unqualified names for DOT node labels")
	flags.BoolVar(&noReduce, "no-reduce", false, "skip transitive reduction, rendering every direct edge")
	flags.BoolVar(&interproc, "interprocedural", false, "record the interprocedural setting in the config (no phase reads it)")
	flags.StringVarP(&out, "output", "o", "", "write the report to this file instead of stdout")

	return cmd
}

func writeReport(cmd *cobra.Command, out, report string) error {
	if out == "" {
		_, err := cmd.OutOrStdout().Write([]byte(report))
		return err
	}
	return os.WriteFile(out, []byte(report), 0o644)
}
