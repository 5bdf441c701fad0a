package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/oy3o/rbxdom/dom"
	"github.com/oy3o/rbxdom/rbxl"
	"github.com/oy3o/rbxdom/reflection"
	"github.com/oy3o/rbxdom/value"
)

func newDumpCommand(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the instance tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := root.loadDatabase()
			if err != nil {
				return err
			}
			tree, err := decodeFile(args[0], db)
			if err != nil {
				return err
			}
			switch format {
			case "text":
				return dom.Fprint(cmd.OutOrStdout(), tree)
			case "json":
				return dumpJSON(cmd.OutOrStdout(), tree)
			}
			return fmt.Errorf("invalid format %q: must be text or json", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (text|json)")
	return cmd
}

// decodeFile decodes path, logging rather than failing on data the decoder
// skipped.
func decodeFile(path string, db *reflection.Database) (*dom.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tree, err := rbxl.Decode(f, rbxl.DecodeOptions{Database: db, Logger: slog.Default().With("file", path)})
	if rbxl.IsUnsupported(err) {
		slog.Info("decoded with warnings", "file", path, "error", err)
		return tree, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

type jsonInstance struct {
	Referent   string                     `json:"referent"`
	ClassName  string                     `json:"className"`
	Properties map[string]json.RawMessage `json:"properties,omitempty"`
	Children   []jsonInstance             `json:"children,omitempty"`
}

func dumpJSON(w io.Writer, tree *dom.Tree) error {
	var convert func(ref value.Referent) (jsonInstance, error)
	convert = func(ref value.Referent) (jsonInstance, error) {
		inst, err := tree.Get(ref)
		if err != nil {
			return jsonInstance{}, err
		}
		out := jsonInstance{Referent: ref.String(), ClassName: inst.ClassName()}
		for _, name := range inst.PropertyNames() {
			v, _ := inst.Property(name)
			raw, err := value.MarshalJSON(v)
			if err != nil {
				return jsonInstance{}, fmt.Errorf("%s.%s: %w", inst.ClassName(), name, err)
			}
			if out.Properties == nil {
				out.Properties = make(map[string]json.RawMessage)
			}
			out.Properties[name] = raw
		}
		for _, c := range inst.Children() {
			child, err := convert(c)
			if err != nil {
				return jsonInstance{}, err
			}
			out.Children = append(out.Children, child)
		}
		return out, nil
	}

	roots := make([]jsonInstance, 0, len(tree.Roots()))
	for _, ref := range tree.Roots() {
		inst, err := convert(ref)
		if err != nil {
			return err
		}
		roots = append(roots, inst)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"metadata": tree.Metadata(), "instances": roots})
}
