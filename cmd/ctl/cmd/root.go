package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/brachy.go/pkg/config"
	"github.com/jpfielding/brachy.go/pkg/logging"
	"github.com/spf13/cobra"
)

// app is the state shared by subcommands once the root has loaded the config
type app struct {
	cfg *config.Config
	log io.Closer
}

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:          "brachyctl",
		Short:        "a CLI to inspect brachytherapy DICOM and convert egs_brachy dose",
		Long:         "parses DICOM, extracts CT/structure/plan data, converts .3ddose <-> RT Dose and reports DVH metrics",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			level, _ := cfg.SlogLevel()
			var w io.Writer = os.Stderr
			if cfg.Log.File != "" {
				fw := logging.FileWriter(cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups)
				a.log = fw
				w = logging.Tee(os.Stderr, fw)
			}
			slog.SetDefault(logging.Logger(w, cfg.Log.JSON, level))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Close()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewDumpCmd(ctx),
		NewRecodeCmd(ctx),
		NewExtractCmd(ctx),
		NewToDICOMCmd(ctx, a),
		NewTo3DDoseCmd(ctx),
		NewDVHCmd(ctx, a),
	)
	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (yaml, json or toml); BRACHY_* env vars also apply")
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.Bool("log-json", false, "log as json")
	pf.String("log-file", "", "also log to this size rotated file")
	return cmd
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}

// writeFile replaces path only once the whole document is in memory
func writeFile(path string, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
