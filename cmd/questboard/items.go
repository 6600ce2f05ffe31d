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

func newItemsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Browse the item shop and a player's collection",
	}

	cmd.AddCommand(
		newItemsListCmd(c),
		newItemsGetCmd(c),
		newItemsOwnedCmd(c),
		newItemsBuyCmd(c),
	)

	return cmd
}

func newItemsListCmd(c *cli) *cobra.Command {
	var q ports.ItemQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogue items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := c.items.FetchAll(c.commandContext(cmd), q)
			if err != nil {
				return err
			}

			return c.renderItems(items)
		},
	}

	cmd.Flags().IntVar((*int)(&q.Tier), "tier", 0, "only items of this rarity tier (1-6)")
	cmd.Flags().Int64Var(&q.MinPrice, "min-price", 0, "minimum price in glory")
	cmd.Flags().Int64Var(&q.MaxPrice, "max-price", 0, "maximum price in glory")
	cmd.Flags().IntVar(&q.Limit, "limit", ports.DefaultListLimit, "maximum items to return")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "items to skip")

	return cmd
}

func newItemsGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get ITEM_ID...",
		Short: "Show one or more items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetches := make([]func(context.Context) (*domain.Item, error), len(args))
			for i, id := range args {
				fetches[i] = func(ctx context.Context) (*domain.Item, error) {
					return c.items.FetchByID(ctx, id)
				}
			}

			found, err := app.ParallelLimit(c.commandContext(cmd), maxConcurrentFetches, fetches...)
			if err != nil {
				return err
			}

			items := make([]domain.Item, len(found))
			for i, it := range found {
				items[i] = *it
			}

			return c.renderItems(items)
		},
	}
}

func newItemsOwnedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "owned USER_ID",
		Short: "List the items a player owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owned, err := c.items.FetchUserItems(c.commandContext(cmd), args[0])
			if err != nil {
				return err
			}

			resp := make([]dto.UserItemResponse, len(owned))
			for i := range owned {
				resp[i] = dto.ToUserItemResponse(&owned[i])
			}

			return c.render(resp, func(w io.Writer) {
				row(w, "ID", "ITEM", "RARITY", "FEATURED", "ACQUIRED")

				for _, ui := range resp {
					name, rarity := ui.ItemID, "-"
					if ui.Item != nil {
						name, rarity = ui.Item.Name, ui.Item.Rarity
					}

					row(w, ui.ID, name, rarity, ui.IsFeatured, ui.AcquiredAt.Format("2006-01-02"))
				}
			})
		},
	}
}

func newItemsBuyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "buy USER_ID ITEM_ID",
		Short: "Buy an item with glory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.actions.PurchaseItem(c.commandContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}

			resp := dto.ToPurchaseResponse(result)

			return c.render(resp, func(w io.Writer) {
				row(w, "ITEM", "PRICE", "GLORY LEFT")

				name := resp.UserItem.ItemID
				if resp.UserItem.Item != nil {
					name = resp.UserItem.Item.Name
				}

				row(w, name, format.Glory(resp.ItemPrice), format.Glory(resp.NewGlory))
			})
		},
	}
}

func (c *cli) renderItems(items []domain.Item) error {
	resp := make([]dto.ItemResponse, len(items))
	for i := range items {
		resp[i] = dto.ToItemResponse(&items[i])
	}

	return c.render(resp, func(w io.Writer) {
		row(w, "ID", "NAME", "RARITY", "STARS", "PRICE")

		for _, it := range resp {
			row(w, it.ID, format.Truncate(it.Name, 40), it.Rarity, stars(it.RarityStars), it.PriceDisplay)
		}
	})
}
