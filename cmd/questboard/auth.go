package main

import (
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/questboard/internal/domain"
)

func newAuthCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in or sign up by email",
	}

	cmd.AddCommand(newAuthLoginCmd(c), newAuthSignupCmd(c))

	return cmd
}

func newAuthLoginCmd(c *cli) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Resolve the player registered under an email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.auth.Login(c.commandContext(cmd), email)
			if err != nil {
				return err
			}

			return c.renderUsers([]domain.User{*user})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "registered email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newAuthSignupCmd(c *cli) *cobra.Command {
	var in domain.UserInput

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a player and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.auth.Signup(c.commandContext(cmd), in)
			if err != nil {
				return err
			}

			return c.renderUsers([]domain.User{*user})
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&in.Username, "username", "", "player name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
