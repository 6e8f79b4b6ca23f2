package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/lazyinv/internal/filter"
	"github.com/rebeliceyang/lazyinv/internal/models"
	"github.com/rebeliceyang/lazyinv/internal/query"
)

func compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile QUERY",
		Short: "Compile a query to CQL and print it",
		Long: `Compile a human readable query, e.g.

  lazyinv compile 'Title = gatsby AND (Contributor = fitzgerald OR Subject = jazz)'

Facet filters are added with --facet name=value, or name=from..to for
date ranges. The command fails with the parse error for malformed queries.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, seg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			compiler := query.NewCompiler(cfg.Vocabulary(seg))
			raw := strings.Join(args, " ")

			var q string
			if keyword, _ := cmd.Flags().GetBool("keyword"); keyword {
				q, err = compiler.CompileKeyword(raw)
			} else {
				q, err = compiler.Compile(raw)
			}
			if err != nil {
				return err
			}

			facets, _ := cmd.Flags().GetStringArray("facet")
			f, err := parseFacets(seg, cfg.Facets(seg), facets)
			if err != nil {
				return err
			}
			filterCQL, err := filter.NewBuilder(cfg.Facets(seg)).BuildFilter(f)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), filter.Combine(q, filterCQL))
			return nil
		},
	}

	cmd.Flags().BoolP("keyword", "k", false, "search the whole input on the keyword index")
	cmd.Flags().StringArrayP("facet", "f", nil, "facet filter, name=value or name=from..to (repeatable)")

	return cmd
}

// parseFacets turns --facet arguments into a filter
func parseFacets(seg models.Segment, facets []models.Facet, args []string) (models.Filter, error) {
	kinds := make(map[string]models.FacetKind, len(facets))
	for _, f := range facets {
		kinds[f.Name] = f.Kind
	}

	result := models.Filter{Segment: seg}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return result, fmt.Errorf("invalid facet %q, expected name=value", arg)
		}
		kind, known := kinds[name]
		if !known {
			return result, fmt.Errorf("unknown facet: %s", name)
		}
		if kind == models.FacetDateRange {
			from, to, _ := strings.Cut(value, "..")
			result = filter.SetRange(result, name, from, to)
			continue
		}
		if sel, ok := result.Selected(name); ok && slices.Contains(sel.Values, value) {
			continue
		}
		result = filter.Toggle(result, name, value)
	}
	return result, nil
}

// indexEntry is one line of the indexes listing
type indexEntry struct {
	Kind     string `yaml:"kind"`
	Label    string `yaml:"label"`
	Template string `yaml:"query_template"`
}

func indexesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "List the search options and operators of a segment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, seg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			vocab := cfg.Vocabulary(seg)
			var entries []indexEntry
			for _, kind := range []models.OptionKind{models.KindSearchOption, models.KindOperator, models.KindBooleanOperator} {
				for _, opt := range vocab.ForKind(kind) {
					entries = append(entries, indexEntry{Kind: kind.String(), Label: opt.Label, Template: opt.QueryTemplate})
				}
			}

			format, _ := cmd.Flags().GetString("format")
			return writeIndexes(cmd.OutOrStdout(), format, entries)
		},
	}

	cmd.Flags().String("format", "text", "output format (text, yaml)")

	return cmd
}

func writeIndexes(out io.Writer, format string, entries []indexEntry) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode indexes: %w", err)
		}
		return enc.Close()
	case "text", "":
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tLABEL\tTEMPLATE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Kind, e.Label, e.Template)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q (expected text or yaml)", format)
	}
}
