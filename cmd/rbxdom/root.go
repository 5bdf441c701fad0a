package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oy3o/rbxdom/internal/logging"
	"github.com/oy3o/rbxdom/reflection"
)

// rootOptions holds the global flags shared by every command.
type rootOptions struct {
	LogLevel string
	LogFile  string
	NoColor  bool

	APIDump    string
	Patches    string
	Defaults   string
	Exclusions string

	closer io.Closer
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "rbxdom",
		Short:         "Inspect binary Roblox model and place files",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogging(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closer != nil {
				return opts.closer.Close()
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "console log level (debug|info|warn|error|off)")
	flags.StringVar(&opts.LogFile, "log-file", "", "also write debug logs to this rotated file")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colored console logs")
	flags.StringVar(&opts.APIDump, "api-dump", "", "API dump JSON used to build the reflection database")
	flags.StringVar(&opts.Patches, "patches", "", "YAML reflection patches applied after the API dump")
	flags.StringVar(&opts.Defaults, "defaults", "", "captured default values (JSON message stream)")
	flags.StringVar(&opts.Exclusions, "exclusions", "", "YAML list of properties and classes never given defaults")

	cmd.AddCommand(newDumpCommand(opts))
	cmd.AddCommand(newRoundtripCommand(opts))
	cmd.AddCommand(newReflectCommand(opts))

	return cmd
}

func (o *rootOptions) setupLogging(console io.Writer) error {
	level, err := logging.ParseLevel(o.LogLevel)
	if err != nil {
		return err
	}
	cfg := logging.Config{ConsoleLevel: level, Console: console, NoColor: o.NoColor, FileLevel: logging.Off}
	if o.LogFile != "" {
		cfg.FilePath = o.LogFile
		cfg.FileLevel = slog.LevelDebug
	}
	o.closer = logging.Setup(cfg)
	return nil
}

// loadDatabase builds the reflection database named by the flags. It
// returns nil without an API dump. report is nil unless defaults were
// merged.
func (o *rootOptions) loadDatabase() (db *reflection.Database, report *reflection.MergeReport, err error) {
	if o.APIDump == "" {
		if o.Patches != "" || o.Defaults != "" || o.Exclusions != "" {
			return nil, nil, fmt.Errorf("--patches, --defaults and --exclusions need --api-dump")
		}
		return nil, nil, nil
	}

	b := reflection.NewBuilder().WithLogger(slog.Default())
	var policy reflection.ExclusionPolicy
	if o.Exclusions != "" {
		err := withFile(o.Exclusions, func(r io.Reader) (err error) {
			policy, err = reflection.LoadExclusionPolicy(r)
			return err
		})
		if err != nil {
			return nil, nil, err
		}
		b.SetExclusionPolicy(policy)
	}
	if err := withFile(o.APIDump, b.LoadAPIDump); err != nil {
		return nil, nil, err
	}
	if o.Patches != "" {
		if err := withFile(o.Patches, b.ApplyPatches); err != nil {
			return nil, nil, err
		}
	}
	if o.Defaults != "" {
		err := withFile(o.Defaults, func(r io.Reader) error {
			rep, err := b.MergeDefaults(r, policy)
			report = &rep
			return err
		})
		if err != nil {
			return nil, nil, err
		}
	}

	db, err = b.Build()
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("reflection database ready", "classes", db.Stats().Classes, "version", db.Version())
	return db, report, nil
}

func withFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
