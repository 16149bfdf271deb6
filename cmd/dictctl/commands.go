package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/dictionary/internal/app"
	"github.com/heartmarshall/dictionary/pkg/dictionary"
	"github.com/heartmarshall/dictionary/pkg/dictionary/loader"
)

var errKeyNotFound = errors.New("key not found")

// runner opens the application once per command invocation.
type runner struct {
	configPath string
}

type runFunc func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error

func (r *runner) with(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := app.Open(ctx, r.configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(ctx, a, cmd, args)
	}
}

func newRootCmd() *cobra.Command {
	r := &runner{}

	root := &cobra.Command{
		Use:   "dictctl",
		Short: "Look up and search configured dictionaries",
		Long: `dictctl resolves dictionaries defined in the configuration file
(static lists or PostgreSQL tables) and prints entries as JSON.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&r.configPath, "config", "c", "",
		"path to the YAML config (default $CONFIG_PATH, then ./config.yaml)")

	root.AddCommand(
		newNamesCmd(r),
		newGetCmd(r),
		newLabelCmd(r),
		newHasCmd(r),
		newResolveCmd(r),
		newListCmd(r),
		newKeysCmd(r),
		newSearchCmd(r),
		newVersionCmd(),
	)

	return root
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

func newNamesCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "List configured dictionary names",
		Args:  cobra.NoArgs,
		RunE: r.with(func(_ context.Context, a *app.App, cmd *cobra.Command, _ []string) error {
			return printJSON(cmd, a.Config.DictionaryNames())
		}),
	}
}

func newGetCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "get <dictionary> <key>",
		Short: "Print the entry for a key",
		Args:  cobra.ExactArgs(2),
		RunE: r.with(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			d, err := a.Provider.Dictionary(ctx, args[0])
			if err != nil {
				return err
			}
			v, ok, err := d.Get(ctx, args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s %q: %w", args[0], args[1], errKeyNotFound)
			}
			return printJSON(cmd, v)
		}),
	}
}

func newLabelCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "label <dictionary> <key>",
		Short: "Print the label for a key",
		Args:  cobra.ExactArgs(2),
		RunE: r.with(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			d, err := a.Provider.Dictionary(ctx, args[0])
			if err != nil {
				return err
			}
			label, ok, err := d.Label(ctx, args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s %q: %w", args[0], args[1], errKeyNotFound)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), label)
			return err
		}),
	}
}

func newHasCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "has <dictionary> <key>",
		Short: "Print whether a key exists",
		Args:  cobra.ExactArgs(2),
		RunE: r.with(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			d, err := a.Provider.Dictionary(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := d.Has(ctx, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, ok)
		}),
	}
}

// newResolveCmd maps many keys to labels in one batched lookup.
func newResolveCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <dictionary> <key>...",
		Short: "Print labels for many keys (null for missing keys)",
		Args:  cobra.MinimumNArgs(2),
		RunE: r.with(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			ctx = loader.WithSet(ctx, loader.NewSet(a.Provider))
			set, _ := loader.FromContext(ctx)

			l, err := set.For(ctx, args[0])
			if err != nil {
				return err
			}

			keys := make([]any, len(args)-1)
			for i, k := range args[1:] {
				keys[i] = k
			}
			results, err := l.GetAll(ctx, keys)
			if err != nil {
				return err
			}

			out := make(map[string]*string, len(results))
			for i, res := range results {
				if !res.Found {
					out[args[i+1]] = nil
					continue
				}
				label := res.Value.Label()
				out[args[i+1]] = &label
			}
			return printJSON(cmd, out)
		}),
	}
}

// ---------------------------------------------------------------------------
// Enumeration and search
// ---------------------------------------------------------------------------

func newListCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list <dictionary>",
		Short: "Print every entry",
		Args:  cobra.ExactArgs(1),
		RunE: r.with(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			d, err := a.Provider.Dictionary(ctx, args[0])
			if err != nil {
				return err
			}
			all, err := d.All(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, all)
		}),
	}
}

func newKeysCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <dictionary>",
		Short: "Print every key",
		Args:  cobra.ExactArgs(1),
		RunE: r.with(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			d, err := a.Provider.Dictionary(ctx, args[0])
			if err != nil {
				return err
			}
			keys, err := d.AllKeys(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, keys)
		}),
	}
}

func newSearchCmd(r *runner) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "search <dictionary> [text...]",
		Short: "Search a database dictionary",
		Long: `Search matches entries containing every word of the text in one of
the dictionary's search fields. Without text every entry matches.`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.with(func(ctx context.Context, a *app.App, cmd *cobra.Command, args []string) error {
			s, err := a.Provider.Searchable(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := s.Search(ctx, strings.Join(args[1:], " "), dictionary.SearchOptions{Page: page})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		}),
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "1-based result page")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of dictctl",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "dictctl %s\n", app.BuildVersion())
			return err
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
