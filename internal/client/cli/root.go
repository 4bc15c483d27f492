package cli

import (
	"github.com/spf13/cobra"
)

// rootCommand instantiates the root command, with all sub-commands bound.
func (c *Cli) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gophtodo [command] [flags]",
		Short:         "Command-line client for the gophtodo server",
		Version:       c.cfg.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&c.cfg.ServerURL, "server", c.cfg.ServerURL, "server URL (env GOPHTODO_SERVER)")
	cmd.PersistentFlags().StringVar(&c.cfg.DBPath, "db", c.cfg.DBPath, "path to local database (env GOPHTODO_DB)")

	cmd.AddCommand(
		c.registerCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
		c.statusCommand(),
		c.todoCommand(),
		c.tagCommand(),
	)

	return cmd
}

func (c *Cli) todoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Todo commands",
	}
	cmd.AddCommand(
		c.todoListCommand(),
		c.todoAddCommand(),
		c.todoEditCommand(),
		c.todoStatusCommand("done", true),
		c.todoStatusCommand("undone", false),
		c.todoRemoveCommand(),
		c.todoClearCommand(),
	)
	return cmd
}

func (c *Cli) tagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag commands",
	}
	cmd.AddCommand(
		c.tagListCommand(),
		c.tagAddCommand(),
		c.tagRemoveCommand(),
		c.tagPruneCommand(),
	)
	return cmd
}
