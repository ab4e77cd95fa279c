package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bpserial/pkg/blueprint"
	"github.com/matzehuels/bpserial/pkg/codec"
	"github.com/matzehuels/bpserial/pkg/diag"
	"github.com/matzehuels/bpserial/pkg/diff"
	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/registry"
	"github.com/matzehuels/bpserial/pkg/validate"
)

// registryFor returns the configured registry, or nil when offline.
func (c *CLI) registryFor(offline bool) (registry.Registry, error) {
	if offline {
		return nil, nil
	}
	reg, err := c.loadRegistry()
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// check validates doc and fails when any issue is an Error. Issues go to w
// only in that case; a valid document's warnings are left to the decoder.
func check(w io.Writer, name string, doc *document.Document, reg registry.Registry) error {
	res := validate.Document(doc, reg)
	if res.Valid() {
		return nil
	}
	for _, d := range res.Issues {
		printDiagnostic(w, d)
	}
	return fmt.Errorf("%s is not valid: %d error(s), %d warning(s)", name, res.Issues.Count(diag.Error), res.Issues.Count(diag.Warning))
}

// decode turns doc back into a blueprint. Diagnostics go to w. Any Error
// fails the decode.
func decode(w io.Writer, doc *document.Document, packagePath string, reg registry.Registry) (*blueprint.Blueprint, error) {
	if packagePath == "" {
		packagePath = doc.Metadata.BlueprintPath
	}
	if packagePath == "" && doc.Metadata.BlueprintName != "" {
		packagePath = "/Game/" + doc.Metadata.BlueprintName
	}
	bp, diags := codec.Decode(doc, packagePath, "", reg)
	for _, d := range diags {
		printDiagnostic(w, d)
	}
	if bp == nil || diags.HasErrors() {
		return nil, fmt.Errorf("decode: %d error(s)", diags.Count(diag.Error))
	}
	return bp, nil
}

// writeDocument writes doc to path, or to w when path is empty or "-".
func (c *CLI) writeDocument(w io.Writer, doc *document.Document, path string) error {
	if path == "" || path == "-" {
		return document.Write(w, doc, c.cfg.Pretty)
	}
	return document.Export(doc, path, c.cfg.Pretty)
}

// roundtripCommand creates the roundtrip command.
func (c *CLI) roundtripCommand() *cobra.Command {
	var (
		output      string
		packagePath string
		offline     bool
	)

	cmd := &cobra.Command{
		Use:   "roundtrip <in.json>",
		Short: "Decode a document into a blueprint and encode it again",
		Long: `Decode a document into an in-memory blueprint and encode the result.

The document is validated first and nothing is written when it has errors.
Decoding problems are printed to stderr. The re-encoded document goes to
stdout unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			reg, err := c.registryFor(offline)
			if err != nil {
				return err
			}
			if err := check(cmd.ErrOrStderr(), args[0], doc, reg); err != nil {
				return err
			}
			bp, err := decode(cmd.ErrOrStderr(), doc, packagePath, reg)
			if err != nil {
				return err
			}
			out := codec.Encode(bp, reg, codec.EncodeOptions{})
			if err := c.writeDocument(cmd.OutOrStdout(), out, output); err != nil {
				return err
			}
			if output != "" && output != "-" {
				printSuccess(cmd.ErrOrStderr(), "Re-encoded %s", bp.Name)
				printFile(cmd.ErrOrStderr(), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&packagePath, "package", "", "package path of the blueprint (default from metadata)")
	cmd.Flags().BoolVar(&offline, "offline", false, "decode without a registry")
	return cmd
}

// mergeCommand creates the merge command.
func (c *CLI) mergeCommand() *cobra.Command {
	var (
		output  string
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "merge <target.json> <incoming.json>",
		Short: "Add the entities of one document to another",
		Long: `Decode the target document, merge the incoming document into it and write
the result. Variables, functions and macros that already exist by name and
nodes that already exist by GUID are kept as they are; everything else is
added and linked. Both documents are validated first, and nothing is
written when either has errors or the merge reports one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := readDocument(args[0])
			if err != nil {
				return err
			}
			incoming, err := readDocument(args[1])
			if err != nil {
				return err
			}
			reg, err := c.registryFor(offline)
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			for i, doc := range []*document.Document{target, incoming} {
				if err := check(stderr, args[i], doc, reg); err != nil {
					return err
				}
			}
			bp, err := decode(stderr, target, "", reg)
			if err != nil {
				return err
			}
			diags := codec.Merge(incoming, bp, reg)
			for _, d := range diags {
				printDiagnostic(stderr, d)
			}
			if diags.HasErrors() {
				return fmt.Errorf("merge: %d error(s)", diags.Count(diag.Error))
			}

			out := codec.Encode(bp, reg, codec.EncodeOptions{})
			if err := c.writeDocument(cmd.OutOrStdout(), out, output); err != nil {
				return err
			}
			for _, line := range diff.Compare(target, out).Lines() {
				printDiffLine(stderr, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&offline, "offline", false, "merge without a registry")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// diffCommand creates the diff command.
func (c *CLI) diffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old.json> <new.json>",
		Short: "Summarise what changed between two documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := readDocument(args[0])
			if err != nil {
				return err
			}
			cur, err := readDocument(args[1])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			sum := diff.Compare(old, cur)
			if sum.Empty() {
				printInfo(w, "No differences")
				return nil
			}
			for _, line := range sum.Lines() {
				printDiffLine(w, line)
			}
			return nil
		},
	}
}
