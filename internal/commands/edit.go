package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tock/internal/db"
	"github.com/balkashynov/tock/internal/parser"
)

var editCmd = &cobra.Command{
	Use:   "edit <item-id>",
	Short: "Edit a tracked item",
	Long: `Change the tag, notes, start or end of an item.
Only the flags you pass are changed.

Examples:
  tock edit 42 --tag meeting
  tock edit 42 --start 09:00 --end 10:30
  tock edit 42 --notes "call with the design team"`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		req := db.UpdateItemRequest{ID: id}
		flags := cmd.Flags()
		if flags.Changed("tag") {
			tag, _ := flags.GetString("tag")
			req.Tag = &tag
		}
		if flags.Changed("notes") {
			notes, _ := flags.GetString("notes")
			req.Notes = &notes
		}
		for _, name := range []string{"start", "end"} {
			if !flags.Changed(name) {
				continue
			}
			raw, _ := flags.GetString(name)
			at, err := parser.ParseMoment(raw, time.Now())
			if err != nil {
				return fmt.Errorf("--%s: %w", name, err)
			}
			if name == "start" {
				req.Start = &at
			} else {
				req.End = &at
			}
		}
		if req.Tag == nil && req.Notes == nil && req.Start == nil && req.End == nil {
			return fmt.Errorf("nothing to change. Use --tag, --notes, --start or --end")
		}

		item, err := db.UpdateItem(req)
		if err != nil {
			return err
		}
		a.logger.Info("item updated", "id", item.ID, "updated_at", item.UpdatedAt)
		fmt.Fprintf(a.out, "✏️  Updated item %d (#%s)\n", item.ID, item.Tag)
		return nil
	}),
}

var rmCmd = &cobra.Command{
	Use:     "rm <item-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a tracked item",
	Long: `Delete an item. The deletion is kept as a marker so that the next sync
removes the item on your other devices too.`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		item, err := db.DeleteItem(id)
		if err != nil {
			return err
		}
		a.logger.Info("item deleted", "id", item.ID)
		fmt.Fprintf(a.out, "🗑️  Deleted item %d (#%s)\n", item.ID, item.Tag)
		return nil
	}),
}

func init() {
	editCmd.Flags().String("tag", "", "New tag")
	editCmd.Flags().String("notes", "", "New notes")
	editCmd.Flags().String("start", "", "New start time")
	editCmd.Flags().String("end", "", "New end time")
}
