package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/plm-eval/internal/logger"
	"github.com/DjordjeVuckovic/plm-eval/internal/registry"
	"github.com/DjordjeVuckovic/plm-eval/pkg/config/env"
	"github.com/spf13/cobra"
)

func main() {
	if err := env.LoadDotEnv(".env", false); err != nil {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	log, closeLog, err := logger.New(logger.LoadConfigFromEnv())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = newRootCmd().ExecuteContext(ctx)
	stop()
	_ = closeLog()

	if err != nil {
		slog.Error("plm_eval failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "plm_eval",
		Short:         "Evaluate pretrained text encoders on sentence similarity benchmarks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(evalCmd())
	root.AddCommand(modelsCmd())
	return root
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the supported model identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := registry.Default()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(tw, "FAMILY\tMODEL\tCONTEXT")
			for _, spec := range r.Families() {
				ctxLen := "-"
				if spec.ContextLength > 0 {
					ctxLen = fmt.Sprintf("%d", spec.ContextLength)
				}
				for _, name := range r.Names(spec.Family) {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", spec.Family, name, ctxLen)
				}
			}
			return tw.Flush()
		},
	}
}
