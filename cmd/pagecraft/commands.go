package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/pagecraft/internal/app"
	"github.com/dshills/pagecraft/internal/config"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configFile string
	logLevel   string
	dataDir    string
	driver     string
}

func (o *globalOptions) overrides() map[string]any {
	m := map[string]any{}
	if o.logLevel != "" {
		m["logging.level"] = o.logLevel
	}
	if o.dataDir != "" {
		m["storage.path"] = o.dataDir
	}
	if o.driver != "" {
		m["storage.driver"] = o.driver
	}
	return m
}

// open creates a session for one command invocation.
func (o *globalOptions) open(cmd *cobra.Command) (*app.App, error) {
	file := o.configFile
	if file == "" {
		file = config.DefaultFile()
	}
	return app.New(app.Options{
		Config: config.Options{
			File:      file,
			Overrides: o.overrides(),
		},
		LogOutput: cmd.ErrOrStderr(),
	})
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "pagecraft",
		Short:         "Edit the sections of a page document from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "Path to configuration file (.toml or .yaml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&opts.dataDir, "data-dir", "", "Directory holding stored documents")
	pf.StringVar(&opts.driver, "driver", "", "Storage driver: diskv or sqlite")

	addEdit(cmd, opts)
	addRun(cmd, opts)
	addExport(cmd, opts)
	addImport(cmd, opts)
	addQuery(cmd, opts)
	addList(cmd, opts)
	addDelete(cmd, opts)
	addCSS(cmd, opts)
	addVersion(cmd)
	return cmd
}

func docArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func addEdit(topLevel *cobra.Command, opts *globalOptions) {
	cmd := &cobra.Command{
		Use:   "edit [document]",
		Short: "Open the section menu of a document.",
		Example: `
pagecraft edit
pagecraft edit landing --driver sqlite
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.Open(ctx, docArg(args, 0)); err != nil {
				return err
			}
			if err := a.WatchConfig(ctx); err != nil {
				a.Logger().Warn("config watch disabled", "error", err)
			}
			return a.Edit(ctx)
		},
	}
	topLevel.AddCommand(cmd)
}

func addRun(topLevel *cobra.Command, opts *globalOptions) {
	dryRun := false
	cmd := &cobra.Command{
		Use:   "run <document> <script.lua>",
		Short: "Run a Lua script against a document and save the result.",
		Example: `
pagecraft run landing tidy.lua
pagecraft run landing tidy.lua --dry-run
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.Open(ctx, args[0]); err != nil {
				return err
			}
			if err := a.RunScript(ctx, args[1]); err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d change(s), not saved\n", a.History().UndoCount())
				return nil
			}
			return a.Save(ctx)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the script without saving.")
	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command, opts *globalOptions) {
	format := "json"
	output := ""
	cmd := &cobra.Command{
		Use:   "export <document>",
		Short: "Print a stored document.",
		Example: `
pagecraft export landing
pagecraft export landing --format yaml -o landing.yaml
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := a.Export(cmd.Context(), args[0], format)
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, data, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format. One of 'json' or 'yaml'.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout.")
	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command, opts *globalOptions) {
	format := ""
	cmd := &cobra.Command{
		Use:   "import <document> <file>",
		Short: "Validate a JSON or YAML file and store it as a document.",
		Example: `
pagecraft import landing landing.yaml
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			f := format
			if f == "" {
				f = strings.TrimPrefix(filepath.Ext(args[1]), ".")
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Import(cmd.Context(), args[0], f, data)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format. Defaults to the file extension.")
	topLevel.AddCommand(cmd)
}

func addQuery(topLevel *cobra.Command, opts *globalOptions) {
	cmd := &cobra.Command{
		Use:   "query <document> <path>",
		Short: "Evaluate a gjson path against a stored document.",
		Example: `
pagecraft query landing 'sections.#.id'
pagecraft query landing 'sections.#(name=="Hero").elements.#'
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Query(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !res.Exists() {
				return fmt.Errorf("no match for %q", args[1])
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command, opts *globalOptions) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			infos, err := a.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tUPDATED")
			for _, in := range infos {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", in.Name, in.Size, in.UpdatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command, opts *globalOptions) {
	cmd := &cobra.Command{
		Use:   "delete <document>",
		Short: "Remove a stored document.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Delete(cmd.Context(), args[0])
		},
	}
	topLevel.AddCommand(cmd)
}

func addCSS(topLevel *cobra.Command, opts *globalOptions) {
	cmd := &cobra.Command{
		Use:   "css <document>",
		Short: "Print the style rules generated from a document's settings.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			css, err := a.CSS(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), css)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addVersion(topLevel *cobra.Command) {
	short := false
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the pagecraft version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pagecraft %s (commit %s, built %s)\n", version, commit, date)
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print just the version number.")
	topLevel.AddCommand(cmd)
}
