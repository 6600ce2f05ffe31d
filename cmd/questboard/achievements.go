package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/questboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/questboard/internal/domain"
)

func newAchievementsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"badges"},
		Short:   "Show achievements and change the worn title",
	}

	cmd.AddCommand(newAchievementsListCmd(c), newAchievementsTitleCmd(c))

	return cmd
}

func newAchievementsListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list USER",
		Short: "List every achievement with the player's unlocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.badges.Showcase(c.commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			return c.render(view, func(w io.Writer) {
				title := view.ActiveTitle
				if title == "" {
					title = "-"
				}

				row(w, "TITLE", title)
				row(w, "UNLOCKED", view.Unlocked, "of", view.Total, view.Progress)
				row(w)
				row(w, "ID", "TITLE", "TYPE", "RARE", "UNLOCKED", "ACTIVE")

				for _, a := range view.All {
					unlocked := a.UnlockedOn
					if !a.Unlocked {
						unlocked = "-"
					}

					row(w, a.ID, a.Title, a.Type, a.Rare, unlocked, a.Active)
				}
			})
		},
	}
}

func newAchievementsTitleCmd(c *cli) *cobra.Command {
	var clearTitle bool

	cmd := &cobra.Command{
		Use:   "title USER [ACHIEVEMENT]",
		Short: "Show the worn title, wear an unlocked achievement, or --clear it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.commandContext(cmd)
			userID := args[0]

			var (
				title *domain.Achievement
				err   error
			)

			switch {
			case clearTitle && len(args) == 2:
				return errors.New("pass an achievement or --clear, not both")
			case clearTitle:
				title, err = c.badges.SetActiveTitle(ctx, userID, "")
			case len(args) == 2:
				title, err = c.badges.SetActiveTitle(ctx, userID, args[1])
			default:
				title, err = c.achievements.FetchActiveTitle(ctx, userID)
			}

			if err != nil {
				return err
			}

			resp := dto.ToTitleResponse(title)

			return c.render(resp, func(w io.Writer) {
				if resp.ActiveTitle == nil {
					row(w, "TITLE", "-")
					return
				}

				row(w, "TITLE", resp.ActiveTitle.Title)
				row(w, "ID", resp.ActiveTitle.ID)
			})
		},
	}

	cmd.Flags().BoolVar(&clearTitle, "clear", false, "remove the worn title")

	return cmd
}
