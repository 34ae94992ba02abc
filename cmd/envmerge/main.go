// Command envmerge merges a dotenv template into a maintained destination
// file, preserving hand-made customizations and frozen blocks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"envmerge/internal/config"
	"envmerge/internal/merge"
	"envmerge/internal/preview"
	"envmerge/internal/watch"
)

const version = "0.4.0"

var (
	// Global flags
	cfgPath string
	verbose bool

	// Merge flags
	prefer      string
	appendNew   bool
	freezeToken string
	output      string
	inPlace     bool
	showSummary bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "envmerge",
	Short: "Merge dotenv templates into maintained .env files",
	Long: `envmerge merges a template .env file into a destination .env file.

Customizations in the destination survive: matched keys follow the configured
preference (destination by default), unmatched destination lines are kept in
place, and blocks wrapped in "# dotenv-merge:freeze" / "# dotenv-merge:unfreeze"
comments are preserved verbatim no matter what the template says. New template
keys are appended only when --append-new is set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge [template] [destination]",
	Short: "Merge a template into a destination file",
	Long: `Merges TEMPLATE into DESTINATION and prints the result to stdout.
Use -o to write to a file instead, or --in-place to rewrite DESTINATION.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

var diffCmd = &cobra.Command{
	Use:   "diff [template] [destination]",
	Short: "Show the changes a merge would make, without writing",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

var watchCmd = &cobra.Command{
	Use:   "watch [template] [destination]",
	Short: "Re-run the merge whenever either input changes",
	Long: `Watches both inputs and rewrites the output file after every change.
Requires -o (refusing to stream a moving merge to stdout). Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the envmerge version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("envmerge %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "envmerge.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	for _, cmd := range []*cobra.Command{mergeCmd, diffCmd, watchCmd} {
		cmd.Flags().StringVar(&prefer, "prefer", "", "Winning side for matched keys: template or destination")
		cmd.Flags().BoolVar(&appendNew, "append-new", false, "Append template-only keys after the destination content")
		cmd.Flags().StringVar(&freezeToken, "freeze-token", "", "Marker namespace for freeze comments")
	}
	mergeCmd.Flags().StringVarP(&output, "output", "o", "", "Write the merged file here instead of stdout")
	mergeCmd.Flags().BoolVar(&inPlace, "in-place", false, "Rewrite the destination file")
	mergeCmd.Flags().BoolVar(&showSummary, "summary", false, "Print a decision summary to stderr")
	watchCmd.Flags().StringVarP(&output, "output", "o", "", "File rewritten after every re-merge (required)")

	rootCmd.AddCommand(mergeCmd, diffCmd, watchCmd, versionCmd)
}

// loadOptions layers CLI flags over the config file and environment.
func loadOptions(cmd *cobra.Command) (merge.Options, *config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return merge.Options{}, nil, err
	}

	if cmd.Flags().Changed("prefer") {
		cfg.Prefer = config.PreferenceConfig{Side: prefer}
	}
	if cmd.Flags().Changed("append-new") {
		cfg.AppendNew = appendNew
	}
	if cmd.Flags().Changed("freeze-token") {
		cfg.FreezeToken = freezeToken
	}

	o, err := cfg.MergeOptions()
	if err != nil {
		return merge.Options{}, nil, err
	}
	o.Logger = logger
	return o, cfg, nil
}

// mergeFiles runs one merge and returns the rendered output, the audit
// trail, and the destination text as it was before the merge.
func mergeFiles(templatePath, destPath string, o merge.Options) (string, *merge.Result, string, error) {
	tpl, err := os.ReadFile(templatePath)
	if err != nil {
		return "", nil, "", fmt.Errorf("reading template: %w", err)
	}
	dst, err := os.ReadFile(destPath)
	if err != nil {
		return "", nil, "", fmt.Errorf("reading destination: %w", err)
	}

	rendered, res, err := merge.Dotenv().MergeText(string(tpl), string(dst), o)
	if err != nil {
		return "", nil, "", err
	}
	return rendered, res, string(dst), nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	o, cfg, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	rendered, res, _, err := mergeFiles(args[0], args[1], o)
	if err != nil {
		return err
	}

	target := output
	if target == "" {
		target = cfg.Output
	}
	if inPlace {
		target = args[1]
	}

	if target == "" {
		fmt.Print(rendered)
	} else {
		if err := os.WriteFile(target, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		logger.Debug("merged file written",
			zap.String("path", target),
			zap.Int("lines", res.Summary().Lines))
	}

	if showSummary {
		fmt.Fprint(os.Stderr, renderSummary(res.Summary()))
	}
	return nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	o, _, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	rendered, _, before, err := mergeFiles(args[0], args[1], o)
	if err != nil {
		return err
	}

	changes := preview.Changes(before, rendered)
	if len(changes) == 0 {
		fmt.Println("merge would change nothing")
		return nil
	}
	fmt.Print(preview.Render(changes))
	added, removed := preview.Stats(changes)
	fmt.Printf("\n%d line(s) added, %d removed\n", added, removed)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if output == "" {
		return fmt.Errorf("watch requires --output")
	}
	o, _, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	remerge := func() {
		rendered, res, _, err := mergeFiles(args[0], args[1], o)
		if err != nil {
			logger.Warn("merge failed", zap.Error(err))
			return
		}
		if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
			logger.Warn("write failed", zap.String("path", output), zap.Error(err))
			return
		}
		logger.Info("merged",
			zap.String("output", output),
			zap.Int("decisions", res.Summary().Decisions))
	}

	// One merge up front so the output exists before the first change.
	remerge()

	w, err := watch.New([]string{args[0], args[1]}, watch.DefaultDebounce, logger, remerge)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching", zap.String("template", args[0]), zap.String("destination", args[1]))
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
