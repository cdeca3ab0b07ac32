package cli

import (
	"context"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/bytemut/internal/config"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execPrintConfig(io, cfg)
		},
	}
}

func execPrintConfig(io *IO, cfg *config.Config) error {
	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("corpus_db=" + cfg.CorpusDBAbs)

	if cfg.DictionaryAbs != "" {
		io.Println("dictionary=" + cfg.DictionaryAbs)
	}

	io.Println("out_dir=" + cfg.OutDirAbs)
	io.Println("seed=" + strconv.FormatUint(cfg.Seed, 10))
	io.Println("count=" + strconv.Itoa(cfg.Count))
	io.Println("workers=" + strconv.Itoa(cfg.Workers))

	if len(cfg.Strategies) > 0 {
		io.Println("strategies=" + strings.Join(cfg.Strategies, ","))
	}

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}

	return nil
}
