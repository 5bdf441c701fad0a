package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/oy3o/rbxdom/dom"
	"github.com/oy3o/rbxdom/rbxl"
	"github.com/oy3o/rbxdom/reflection"
)

var compressions = map[string]rbxl.Compression{
	"lz4":  rbxl.CompressionLZ4,
	"zstd": rbxl.CompressionZstd,
	"none": rbxl.CompressionNone,
}

type roundtripResult struct {
	path      string
	instances int
	size      int
	err       error
}

func newRoundtripCommand(root *rootOptions) *cobra.Command {
	var (
		compression string
		jobs        int
	)

	cmd := &cobra.Command{
		Use:   "roundtrip FILE...",
		Short: "Decode, re-encode and decode files, checking the trees match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := compressions[compression]
			if !ok {
				return fmt.Errorf("invalid compression %q: must be lz4, zstd or none", compression)
			}
			db, _, err := root.loadDatabase()
			if err != nil {
				return err
			}
			if jobs < 1 {
				jobs = runtime.GOMAXPROCS(0)
			}

			// The database is read-only once built, so workers share it.
			results := make([]roundtripResult, len(args))
			p := pool.New().WithMaxGoroutines(jobs)
			for i, path := range args {
				p.Go(func() {
					results[i] = roundtripFile(path, db, c)
				})
			}
			p.Wait()

			failed := 0
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", r.path, r.err)
					continue
				}
				fmt.Fprintf(out, "ok   %s (%d instances, %d bytes)\n", r.path, r.instances, r.size)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&compression, "compression", "lz4", "chunk compression for the re-encode (lz4|zstd|none)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files processed at once (default GOMAXPROCS)")
	return cmd
}

func roundtripFile(path string, db *reflection.Database, c rbxl.Compression) roundtripResult {
	res := roundtripResult{path: path}
	first, err := decodeFile(path, db)
	if err != nil {
		res.err = err
		return res
	}
	res.instances = first.Len()

	var buf bytes.Buffer
	log := slog.Default().With("file", path)
	if err := rbxl.Encode(&buf, first, rbxl.EncodeOptions{Database: db, Compression: c, Logger: log}); err != nil {
		res.err = err
		return res
	}
	res.size = buf.Len()

	second, err := rbxl.Decode(&buf, rbxl.DecodeOptions{Database: db, Logger: log})
	if err != nil && !rbxl.IsUnsupported(err) {
		res.err = fmt.Errorf("re-decode: %w", err)
		return res
	}
	res.err = dom.Compare(first, second)
	return res
}
