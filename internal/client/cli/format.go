package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/iudanet/gophtodo/internal/models"
)

const dateLayout = "2006-01-02"

func printTodos(w io.Writer, todos []*models.Todo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDONE\tTEXT\tTAG\tDUE")
	for _, todo := range todos {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			todo.ID,
			checkbox(todo.IsDone),
			todo.TodoText,
			valueOr(todo.TagName, "-"),
			formatDate(todo.DueDate),
		)
	}
	return tw.Flush()
}

func printTags(w io.Writer, tags []*models.Tag) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME")
	for _, tag := range tags {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", tag.ID, tag.Name)
	}
	return tw.Flush()
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func doneLabel(done bool) string {
	if done {
		return "done"
	}
	return "not done"
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// formatDate показывает только дату, если время полночь UTC
func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 {
		return u.Format(dateLayout)
	}
	return u.Format(time.RFC3339)
}
