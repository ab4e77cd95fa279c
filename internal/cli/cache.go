package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bpserial/internal/config"
	"github.com/matzehuels/bpserial/pkg/schema"
)

// schemaCacheCommand creates the schema cache management command.
func (c *CLI) schemaCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema-cache",
		Short: "Manage the cached node schema",
	}

	cmd.AddCommand(c.schemaCacheClearCommand())
	cmd.AddCommand(c.schemaCachePathCommand())

	return cmd
}

// schemaCacheClearCommand creates the "schema-cache clear" subcommand.
func (c *CLI) schemaCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the cached node schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sc, store, err := c.newSchemaCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := sc.Invalidate(ctx); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Cleared cached schema")
			printDetail(w, "Backend: %s", c.cfg.Cache.Backend)
			return nil
		},
	}
}

// schemaCachePathCommand creates the "schema-cache path" subcommand.
func (c *CLI) schemaCachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cached schema is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch c.cfg.Cache.Backend {
			case config.BackendFile:
				fmt.Fprintln(w, filepath.Join(c.cfg.OutputDir(), schema.CacheKey))
			case config.BackendSQLite:
				printKeyValue(w, "database", c.cfg.DatabasePath())
				printKeyValue(w, "key", schema.CacheKey)
			case config.BackendRedis:
				printKeyValue(w, "redis", c.cfg.Cache.RedisAddr)
				printKeyValue(w, "key", c.namespace()+schema.CacheKey)
			default:
				printInfo(w, "Schema caching is disabled")
			}
			return nil
		},
	}
}
