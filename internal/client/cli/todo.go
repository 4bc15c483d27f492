package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophtodo/internal/client/api"
	"github.com/iudanet/gophtodo/internal/validation"
	apitypes "github.com/iudanet/gophtodo/pkg/api"
)

func (c *Cli) todoListCommand() *cobra.Command {
	var tagID, sortBy string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List visible todos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var byDue bool
			switch sortBy {
			case "", "created":
			case "due":
				byDue = true
			default:
				return fmt.Errorf("unknown sort %q: use created or due", sortBy)
			}
			return c.runTodoList(cmd.Context(), api.ListOptions{TagID: tagID, SortByDue: byDue})
		},
	}

	cmd.Flags().StringVar(&tagID, "tag", "", "show only todos with this tag ID")
	cmd.Flags().StringVar(&sortBy, "sort", "created", "sort order: created or due")
	return cmd
}

func (c *Cli) todoAddCommand() *cobra.Command {
	var tagID, due string

	cmd := &cobra.Command{
		Use:   "add TEXT",
		Short: "Create todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apitypes.TodoCreateRequest{
				TodoText: strings.Join(args, " "),
				TagID:    optional(tagID),
				DueDate:  optional(due),
			}
			return c.runTodoAdd(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&tagID, "tag", "", "tag ID")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD or RFC 3339")
	return cmd
}

func (c *Cli) todoEditCommand() *cobra.Command {
	var tagID, due string

	cmd := &cobra.Command{
		Use:   "edit ID TEXT",
		Short: "Change todo text, tag and due date",
		Long: "Replaces the todo text. Tag and due date are kept unless --tag or --due\n" +
			"is given; pass an empty value to clear them.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apitypes.TodoUpdateRequest{
				ID:       args[0],
				TodoText: strings.Join(args[1:], " "),
			}
			if cmd.Flags().Changed("tag") {
				req.TagID = optional(tagID)
			}
			if cmd.Flags().Changed("due") {
				req.DueDate = optional(due)
			}
			return c.runTodoEdit(cmd.Context(), req, cmd.Flags().Changed("tag"), cmd.Flags().Changed("due"))
		},
	}

	cmd.Flags().StringVar(&tagID, "tag", "", "tag ID, empty to clear")
	cmd.Flags().StringVar(&due, "due", "", "due date, empty to clear")
	return cmd
}

func (c *Cli) todoStatusCommand(use string, done bool) *cobra.Command {
	short := "Mark todo as done"
	if !done {
		short = "Mark todo as not done"
	}

	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.api.SetTodoStatus(cmd.Context(), args[0], done)
			if err != nil {
				return err
			}
			c.io.Printf("✓ Todo %s: %s\n", resp.ID, doneLabel(resp.IsDone))
			return nil
		},
	}
}

func (c *Cli) todoRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.api.DeleteTodo(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.io.Printf("✓ Todo %s deleted\n", args[0])
			return nil
		},
	}
}

func (c *Cli) todoClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every todo visible to you",
		Long: "Deletes all todos you can see: your own when logged in, unowned ones\n" +
			"otherwise. Todos of other users are never touched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				resp, err := c.io.ReadInput("Delete all visible todos? [y|N] ")
				if err != nil || !strings.EqualFold(strings.TrimSpace(resp), "y") {
					c.io.Println("Aborted.")
					return nil
				}
			}

			deleted, err := c.api.DeleteAllTodos(cmd.Context())
			if err != nil {
				return err
			}
			c.io.Printf("✓ Deleted %d todo(s)\n", deleted)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *Cli) runTodoList(ctx context.Context, opts api.ListOptions) error {
	todos, err := c.api.ListTodos(ctx, opts)
	if err != nil {
		return err
	}

	if len(todos) == 0 {
		c.io.Println("No todos found.")
		return nil
	}

	return printTodos(c.io, todos)
}

func (c *Cli) runTodoAdd(ctx context.Context, req apitypes.TodoCreateRequest) error {
	if err := validation.ValidateTodoText(req.TodoText); err != nil {
		return err
	}

	todo, err := c.api.CreateTodo(ctx, req)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Todo created: %s\n", todo.ID)
	return nil
}

// runTodoEdit отправляет PATCH /todo. Сервер сбрасывает отсутствующие
// tagId и dueDate, поэтому без флагов текущие значения подставляются из списка
func (c *Cli) runTodoEdit(ctx context.Context, req apitypes.TodoUpdateRequest, tagSet, dueSet bool) error {
	if err := validation.ValidateTodoText(req.TodoText); err != nil {
		return err
	}

	if !tagSet || !dueSet {
		todos, err := c.api.ListTodos(ctx, api.ListOptions{})
		if err != nil {
			return err
		}
		for _, todo := range todos {
			if todo.ID != req.ID {
				continue
			}
			if !tagSet {
				req.TagID = todo.TagID
			}
			if !dueSet && todo.DueDate != nil {
				due := todo.DueDate.UTC().Format(time.RFC3339)
				req.DueDate = &due
			}
			break
		}
	}

	todo, err := c.api.UpdateTodo(ctx, req)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Todo %s updated\n", todo.ID)
	return nil
}

// optional возвращает nil для пустой строки
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
