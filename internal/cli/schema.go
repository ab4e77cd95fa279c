package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bpserial/pkg/observability"
	"github.com/matzehuels/bpserial/pkg/schema"
)

// catalogCommand creates the generate-node-catalog command.
func (c *CLI) catalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-node-catalog [out.json]",
		Short: "Write an inventory of every node class",
		Long: `Write the name, path, category, parent class and latency of every concrete
node class known to the registry.

The catalog is written to <project_saved>/BlueprintSerializer/node_catalog.json
unless a path is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.loadRegistry()
			if err != nil {
				return err
			}
			cat := schema.BuildCatalog(reg, time.Now())

			out := c.outputPath(args, catalogFile)
			if err := writeJSONFile(out, cat, c.cfg.Pretty); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Cataloged %s node types", StyleNumber.Render(fmt.Sprint(cat.NodeTypeCount)))
			printFile(w, out)
			return nil
		},
	}
}

// masterSchemaCommand creates the generate-master-schema command.
func (c *CLI) masterSchemaCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "generate-master-schema [out.json]",
		Short: "Write the full node schema",
		Long: `Write the schema of every node class: display name, category, flags and
the properties a document may carry for it.

The schema comes from the schema cache and is regenerated when the cached
copy was built for another engine version. Use --refresh to force a
rebuild. Pass "-" to write the schema to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			sc, store, err := c.newSchemaCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			prog := newProgress(logger)
			spin := newSpinner(ctx, cmd.ErrOrStderr(), observability.Schema())
			observability.SetSchemaHooks(spin)
			defer observability.SetSchemaHooks(spin.next)
			spin.Start()
			var s *schema.Schema
			if refresh {
				s, err = sc.Refresh(ctx)
			} else {
				s, err = sc.Get(ctx)
			}
			if spin.Cancelled() {
				spin.Stop()
				return ctx.Err()
			}
			if s == nil {
				spin.StopWithError("Could not load the node schema")
				return err
			}
			spin.Stop()
			if err != nil {
				logger.Warn("schema cache not updated", "err", err)
			}
			prog.done(fmt.Sprintf("Loaded schema for %d nodes %s", len(s.NodeSchemas), sourceLabel(spin.Source())))

			if len(args) > 0 && args[0] == "-" {
				return schema.WriteJSON(cmd.OutOrStdout(), s, c.cfg.Pretty)
			}
			out := c.outputPath(args, schemaFile)
			if err := writeJSONFile(out, s, c.cfg.Pretty); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Wrote schema for %s node types (engine %s)",
				StyleNumber.Render(fmt.Sprint(len(s.NodeSchemas))), s.EngineVersion)
			printFile(w, out)
			printNextStep(w, "Check a document against it", appName+" validate-file <doc.json>")
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "discard the cached schema and regenerate it")
	return cmd
}

// writeJSONFile writes v to path, creating parent directories.
func writeJSONFile(path string, v any, pretty bool) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return schema.WriteJSON(f, v, pretty)
}
