package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/engine"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) lsCmd() *cobra.Command {
	var (
		plain  bool
		group  bool
		filter string
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items (interactive unless --plain)",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return usageErr("%v", err)
			}
			if !plain && !group {
				return a.interactive(cmd.Context(), f)
			}
			eng, err := a.engine(cmd.Context(), true)
			if err != nil {
				return err
			}
			a.printList(eng, f, group)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the list instead of opening the interactive view")
	cmd.Flags().BoolVar(&group, "group", false, "print grouped by pending/done (implies --plain)")
	cmd.Flags().StringVar(&filter, "filter", "all", "all, active or completed")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := a.engine(ctx, true)
			if err != nil {
				return err
			}
			before := eng.Items().Len()
			engine.Run(ctx, eng, eng.Create(strings.Join(args, " ")))
			if err := a.noteErr(eng, codeFail); err != nil {
				return err
			}
			items := eng.Items().Items()
			if len(items) == before {
				return failErr(fmt.Errorf("add: nothing was created"))
			}
			ui.OK(a.stdout, fmt.Sprintf("added #%d", len(items)))
			return nil
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for the item at a 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.onItem(cmd.Context(), "done", args[0], func(e *engine.Engine, it model.Item) engine.Effects {
				return e.ToggleCheckbox(it, !it.Completed)
			}, "toggled")
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove"},
		Short:   "Remove the item at a 1-based index",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.onItem(cmd.Context(), "rm", args[0], func(e *engine.Engine, it model.Item) engine.Effects {
				return e.Delete(it.ID)
			}, "removed")
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index> <title...>",
		Short: "Rename the item at a 1-based index (an empty title removes it)",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args[1:], " ")
			return a.onItem(cmd.Context(), "edit", args[0], func(e *engine.Engine, it model.Item) engine.Effects {
				return e.EditTitle(it, title)
			}, "updated")
		},
	}
}

func (a *app) toggleAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-all",
		Short: "Complete every item, or reopen all when everything is done",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.bulk(cmd.Context(), (*engine.Engine).ToggleAll, "toggled all")
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every completed item",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.bulk(cmd.Context(), (*engine.Engine).ClearCompleted, "cleared completed")
		},
	}
}

func (a *app) onItem(ctx context.Context, verb, arg string, op func(*engine.Engine, model.Item) engine.Effects, done string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return usageErr("%s: not a number: %s", verb, arg)
	}
	eng, err := a.engine(ctx, true)
	if err != nil {
		return err
	}
	items := eng.Items().Items()
	if n < 1 || n > len(items) {
		ui.Fail(a.stderr, fmt.Sprintf("index out of range: have %d, got %d", len(items), n))
		fmt.Fprintln(a.stderr, ui.Dim("Hint: run `tada ls --plain` to see valid indexes"))
		return reported(codeUsage, fmt.Errorf("%s: index out of range", verb))
	}
	engine.Run(ctx, eng, op(eng, items[n-1]))
	if err := a.noteErr(eng, codeFail); err != nil {
		return err
	}
	ui.OK(a.stdout, done)
	return nil
}

func (a *app) bulk(ctx context.Context, op func(*engine.Engine) engine.Effects, done string) error {
	eng, err := a.engine(ctx, true)
	if err != nil {
		return err
	}
	fx := op(eng)
	if fx.Empty() {
		ui.OK(a.stdout, "nothing to do")
		return nil
	}
	engine.Run(ctx, eng, fx)
	if err := a.noteErr(eng, codeFail); err != nil {
		return err
	}
	ui.OK(a.stdout, done)
	return nil
}
