package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/questboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/ports"
)

func newUsersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Look up and register players",
	}

	cmd.AddCommand(newUsersListCmd(c), newUsersGetCmd(c), newUsersCreateCmd(c))

	return cmd
}

func newUsersListCmd(c *cli) *cobra.Command {
	var page domain.Page

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := c.users.FetchAll(c.commandContext(cmd), page)
			if err != nil {
				return err
			}

			return c.renderUsers(users)
		},
	}

	cmd.Flags().IntVar(&page.Limit, "limit", ports.DefaultListLimit, "maximum players to return")
	cmd.Flags().IntVar(&page.Offset, "offset", 0, "players to skip")

	return cmd
}

func newUsersGetCmd(c *cli) *cobra.Command {
	var byName bool

	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a player by ID, or by username with --username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.commandContext(cmd)

			var (
				user *domain.User
				err  error
			)

			if byName {
				user, err = c.users.FetchByUsername(ctx, args[0])
			} else {
				user, err = c.users.FetchByID(ctx, args[0])
			}

			if err != nil {
				return err
			}

			return c.renderUsers([]domain.User{*user})
		},
	}

	cmd.Flags().BoolVar(&byName, "username", false, "treat the argument as a username")

	return cmd
}

func newUsersCreateCmd(c *cli) *cobra.Command {
	var in domain.UserInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.users.Create(c.commandContext(cmd), in)
			if err != nil {
				return err
			}

			return c.renderUsers([]domain.User{*user})
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "player name")
	cmd.Flags().StringVar(&in.Email, "email", "", "contact email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (c *cli) renderUsers(users []domain.User) error {
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = dto.ToUserResponse(&users[i])
	}

	return c.render(resp, func(w io.Writer) {
		row(w, "ID", "USERNAME", "LEVEL", "GLORY")

		for _, u := range resp {
			row(w, u.ID, u.Username, u.Level, u.GloryDisplay)
		}
	})
}
