package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/questboard/internal/app"
)

func newHomeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "home USER_ID",
		Short: "Show a player's dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.dashboard.Home(c.commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			return c.render(view, func(w io.Writer) { writeHome(w, view) })
		},
	}
}

func newProfileCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "profile USER_ID",
		Short: "Show a player's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.dashboard.Profile(c.commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			return c.render(view, func(w io.Writer) { writeProfile(w, view) })
		},
	}
}

func writeHome(w io.Writer, v *app.HomeView) {
	fmt.Fprintf(w, "%s (%s)\tLevel %d\t%s glory\n", v.User.Username, v.User.Initials, v.Level.Level, v.Glory)
	fmt.Fprintf(w, "%s\t%s\n\n", v.Level.Label, v.Level.XPToNext+" XP to next level")

	writeStats(w, v.Stats)

	if len(v.ActiveQuests) == 0 {
		fmt.Fprintln(w, "No active quests. Find a quest to get started!")
	} else {
		row(w, "ACTIVE QUEST", "TIER", "REWARD", "TIME LEFT")

		for _, q := range v.ActiveQuests {
			left := q.TimeLeft
			if q.ExpiringSoon {
				left += " !"
			}

			row(w, q.Title, q.Tier, q.Glory, left)
		}
	}

	if len(v.TopItems) > 0 {
		fmt.Fprintln(w)
		writeItemCards(w, v.TopItems)
	}
}

func writeProfile(w io.Writer, v *app.ProfileView) {
	fmt.Fprintf(w, "%s (%s)\t%s\n", v.User.Username, v.User.Initials, v.Email)
	fmt.Fprintf(w, "Level %d\t%s\n", v.Level.Level, v.Level.Label)
	fmt.Fprintf(w, "Glory\t%s\t(lifetime %s)\n", v.Glory, v.LifetimeGlory)
	fmt.Fprintf(w, "Collection\t%s\taverage %s\n\n", v.CollectionValue, v.AverageRarity)

	writeStats(w, v.Stats)

	if len(v.Featured) > 0 {
		writeItemCards(w, v.Featured)
	}
}

func writeStats(w io.Writer, stats []app.StatCard) {
	for _, s := range stats {
		row(w, s.Label, s.Value)
	}

	fmt.Fprintln(w)
}

func writeItemCards(w io.Writer, cards []app.ItemCard) {
	row(w, "ITEM", "RARITY", "STARS", "VALUE")

	for _, it := range cards {
		row(w, it.Name, it.Rarity, stars(it.Stars), it.Price)
	}
}
