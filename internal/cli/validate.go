package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bpserial/pkg/diag"
	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/registry"
	"github.com/matzehuels/bpserial/pkg/schema"
	"github.com/matzehuels/bpserial/pkg/validate"
)

// validateCommand creates the validate-file command.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		offline bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "validate-file <path.json>",
		Short: "Check a document and print its issues",
		Long: `Parse a document and check it against the registry.

Every issue is printed as "[SEVERITY] Node <guid>: <message>" or
"[SEVERITY] <message>". The command fails if any issue is an ERROR.
With --offline, references are not resolved against the registry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := document.ReadFile(path)
			if err != nil {
				return err
			}

			var reg registry.Registry
			if !offline {
				r, err := c.loadRegistry()
				if err != nil {
					return err
				}
				reg = r
			}

			res := validate.Bytes(data, reg)
			w := cmd.OutOrStdout()
			if asJSON {
				if err := schema.WriteJSON(w, res, c.cfg.Pretty); err != nil {
					return err
				}
			} else {
				for _, d := range res.Issues {
					printDiagnostic(w, d)
				}
			}

			errs := res.Issues.Count(diag.Error)
			if errs > 0 {
				return fmt.Errorf("%s is not valid: %d error(s), %d warning(s)", path, errs, res.Issues.Count(diag.Warning))
			}
			if asJSON {
				return nil
			}
			if warns := res.Issues.Count(diag.Warning); warns > 0 {
				printWarning(w, "%s is valid with %d warning(s)", path, warns)
			} else {
				printSuccess(w, "%s is valid", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip registry resolution checks")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
