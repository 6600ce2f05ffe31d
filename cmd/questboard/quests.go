package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/questboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/questboard/internal/app"
	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/platform/format"
	"github.com/jsamuelsen/questboard/internal/ports"
)

// maxConcurrentFetches bounds "quests get" and "items get" with many IDs.
const maxConcurrentFetches = 4

func newQuestsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quests",
		Short: "Browse quests and manage a player's runs",
	}

	cmd.AddCommand(
		newQuestsListCmd(c),
		newQuestsGetCmd(c),
		newQuestsActiveCmd(c),
		newQuestsHistoryCmd(c),
		newQuestsStartCmd(c),
		newQuestsCompleteCmd(c),
		newQuestsAbandonCmd(c),
		newQuestsChatCmd(c),
	)

	return cmd
}

func newQuestsListCmd(c *cli) *cobra.Command {
	var q ports.QuestQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogue quests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quests, err := c.quests.FetchAll(c.commandContext(cmd), q)
			if err != nil {
				return err
			}

			return c.renderQuests(quests)
		},
	}

	cmd.Flags().IntVar((*int)(&q.Tier), "tier", 0, "only quests of this tier (1-6)")
	cmd.Flags().IntVar(&q.Limit, "limit", ports.DefaultListLimit, "maximum quests to return")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "quests to skip")

	return cmd
}

func newQuestsGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get QUEST_ID...",
		Short: "Show one or more quests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetches := make([]func(context.Context) (*domain.Quest, error), len(args))
			for i, id := range args {
				fetches[i] = func(ctx context.Context) (*domain.Quest, error) {
					return c.quests.FetchByID(ctx, id)
				}
			}

			found, err := app.ParallelLimit(c.commandContext(cmd), maxConcurrentFetches, fetches...)
			if err != nil {
				return err
			}

			quests := make([]domain.Quest, len(found))
			for i, q := range found {
				quests[i] = *q
			}

			return c.renderQuests(quests)
		},
	}
}

func newQuestsActiveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "active USER_ID",
		Short: "List a player's active quests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.renderRuns(c.quests.FetchActiveQuests(c.commandContext(cmd), args[0]))
		},
	}
}

func newQuestsHistoryCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history USER_ID",
		Short: "List a player's finished quests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := c.quests.FetchQuestHistory(c.commandContext(cmd), args[0], limit)
			if err != nil {
				return err
			}

			return c.renderRuns(runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", ports.DefaultHistoryLimit, "maximum runs to return")

	return cmd
}

func newQuestsStartCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "start USER_ID QUEST_ID",
		Short: "Start a quest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uq, err := c.actions.StartQuest(c.commandContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}

			return c.renderRuns([]domain.UserQuest{*uq})
		},
	}
}

func newQuestsCompleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "complete USER_ID USER_QUEST_ID",
		Short: "Complete an active quest and collect its rewards",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			completion, err := c.actions.CompleteQuest(c.commandContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}

			resp := dto.ToCompletionResponse(completion)

			return c.render(resp, func(w io.Writer) {
				row(w, "QUEST", "STATUS", "ITEM", "ACHIEVEMENTS")

				title := resp.UserQuest.QuestID
				if resp.UserQuest.Quest != nil {
					title = resp.UserQuest.Quest.Title
				}

				item := "-"
				if resp.AwardedItem != nil && resp.AwardedItem.Item != nil {
					item = resp.AwardedItem.Item.Name
				}

				row(w, title, resp.UserQuest.Status, item, len(resp.Achievements))
			})
		},
	}
}

func newQuestsAbandonCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "abandon USER_ID USER_QUEST_ID",
		Short: "Give up an active quest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.actions.AbandonQuest(c.commandContext(cmd), args[0], args[1]); err != nil {
				return err
			}

			result := map[string]string{"user_quest_id": args[1], "status": string(domain.QuestAbandoned)}

			return c.render(result, func(w io.Writer) {
				row(w, "USER QUEST", "STATUS")
				row(w, args[1], domain.QuestAbandoned)
			})
		},
	}
}

func newQuestsChatCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "chat USER_ID USER_QUEST_ID MESSAGE",
		Short: "Ask the quest helper about an active quest",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := c.quests.Chat(c.commandContext(cmd), args[0], args[1], args[2], nil)
			if err != nil {
				return err
			}

			return c.render(map[string]string{"response": reply}, func(w io.Writer) {
				row(w, reply)
			})
		},
	}
}

func (c *cli) renderQuests(quests []domain.Quest) error {
	resp := make([]dto.QuestResponse, len(quests))
	for i := range quests {
		resp[i] = dto.ToQuestResponse(&quests[i])
	}

	return c.render(resp, func(w io.Writer) {
		row(w, "ID", "TITLE", "TIER", "GLORY", "XP", "HOURS")

		for _, q := range resp {
			row(w, q.ID, format.Truncate(q.Title, 40), q.TierName, q.GloryDisplay, format.XP(q.XPReward), q.TimeLimitHours)
		}
	})
}

func (c *cli) renderRuns(runs []domain.UserQuest) error {
	resp := make([]dto.UserQuestResponse, len(runs))
	for i := range runs {
		resp[i] = dto.ToUserQuestResponse(&runs[i])
	}

	return c.render(resp, func(w io.Writer) {
		row(w, "ID", "QUEST", "STATUS", "DEADLINE")

		for i, r := range resp {
			title := r.QuestID
			if r.Quest != nil {
				title = format.Truncate(r.Quest.Title, 40)
			}

			deadline := "-"
			if r.Status == string(domain.QuestActive) {
				deadline = format.FormatTimeRemaining(runs[i].DeadlineAt, c.now())
			}

			row(w, r.ID, title, r.Status, deadline)
		}
	})
}
