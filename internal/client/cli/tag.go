package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophtodo/internal/validation"
)

func (c *Cli) tagListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tags, err := c.api.ListTags(cmd.Context())
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				c.io.Println("No tags found.")
				return nil
			}
			return printTags(c.io, tags)
		},
	}
}

func (c *Cli) tagAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Create tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if err := validation.ValidateTagName(name); err != nil {
				return err
			}

			tag, err := c.api.CreateTag(cmd.Context(), name)
			if err != nil {
				return err
			}
			c.io.Printf("✓ Tag %s created: %s\n", tag.Name, tag.ID)
			return nil
		},
	}
}

func (c *Cli) tagRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete tag that no todo uses",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.api.DeleteTag(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.io.Printf("✓ Tag %s deleted\n", args[0])
			return nil
		},
	}
}

func (c *Cli) tagPruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete all tags that no todo uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deleted, err := c.api.DeleteUnusedTags(cmd.Context())
			if err != nil {
				return err
			}
			c.io.Printf("✓ Deleted %d unused tag(s)\n", deleted)
			return nil
		},
	}
}
