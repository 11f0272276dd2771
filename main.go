package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"procflow/internal/catalog"
)

var Version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "procflow",
		Short: "Terminal process-flow designer",
		Long: `procflow lays out process steps as cards on a snapping grid, links them
with flow, parallel and route connections, and keeps the diagram with its
undo history in local storage between sessions.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return loadConfig(cmd, cfgFile)
		},
		RunE:          runEditor,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./procflow.yaml)")
	rootCmd.PersistentFlags().String("storage", "", "storage backend (sqlite|memory)")
	rootCmd.PersistentFlags().String("storage-path", "", "path to the sqlite state file")
	rootCmd.PersistentFlags().String("storage-key", "", "name of the saved entry")
	rootCmd.PersistentFlags().String("catalog", "", "YAML file with card templates")
	rootCmd.PersistentFlags().String("export-dir", "", "directory for exported files")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text|json|pretty)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	_ = rootCmd.RegisterFlagCompletionFunc("storage", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"sqlite", "memory"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newEditCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newTemplatesCommand())
	rootCmd.AddCommand(newDemoCommand())
	rootCmd.AddCommand(newClearCommand())

	return rootCmd
}

func newEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the diagram editor (default)",
		Args:  cobra.NoArgs,
		RunE:  runEditor,
	}
}

func runEditor(cmd *cobra.Command, _ []string) error {
	// The editor owns the terminal, so logs only go to a file.
	a, err := newApp(getConfig(cmd.Context()), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(
		initialModel(a),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}

func newExportCommand() *cobra.Command {
	var pngFile, txtFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the saved diagram to PNG or text",
		Example: `  procflow export --png flow.png
  procflow export --txt flow.txt --png flow.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pngFile == "" && txtFile == "" {
				return fmt.Errorf("nothing to do: pass --png and/or --txt")
			}
			a, err := newApp(getConfig(cmd.Context()), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			cards, conns := a.store.Cards(), a.store.Connections()
			if pngFile != "" {
				path := exportPath(a.cfg.ExportDir, pngFile)
				if err := ExportToPNG(path, cards, conns, a.store.Selection()); err != nil {
					return fmt.Errorf("png export failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			if txtFile != "" {
				path := exportPath(a.cfg.ExportDir, txtFile)
				if err := exportVisualTXTFile(path, cards, conns, a.cfg.View.UnitsPerColumn, a.cfg.View.UnitsPerRow); err != nil {
					return fmt.Errorf("text export failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pngFile, "png", "", "write a PNG image")
	cmd.Flags().StringVar(&txtFile, "txt", "", "write a plain-text drawing")
	return cmd
}

func newTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the card templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd.Context())
			templates, err := catalog.Load(cfg.CatalogFile)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tTITLE\tCOLOR\tSIZE\tDESCRIPTION")
			for i, t := range templates {
				title := t.Title
				if t.SubLabel != "" {
					title += " (" + t.SubLabel + ")"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%gx%g\t%s\n", i+1, title, t.Color, t.Width, t.Height, truncate(strings.TrimSpace(t.Description), 60))
			}
			return w.Flush()
		},
	}
}

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Replace the saved diagram with the demo diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(getConfig(cmd.Context()), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			cards, conns := catalog.Demo(a.store.Grid())
			a.store.ReplaceAll(cards, conns)
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded demo diagram (%d cards, %d connections)\n", len(cards), len(conns))
			return nil
		},
	}
}

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved diagram and its history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(getConfig(cmd.Context()), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			a.store.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "Saved diagram cleared")
			return nil
		},
	}
}
