package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/config"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
	"github.com/MahdiIsse/project-management-sub001/internal/user"
)

func tokenCmd() *cobra.Command {
	var (
		owner string
		save  bool
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		Long: `Sign a bearer token with api.jwt_secret for the given owner (default:
the local user). With --save the token is written to api.token so --remote
commands use it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			issuer, err := auth.NewIssuer(cfg.API.JWTSecret, cfg.API.TokenTTL.Std())
			if err != nil {
				return fmt.Errorf("%w: set api.jwt_secret or WORKBOARD_JWT_SECRET", err)
			}

			id := user.LocalOwner()
			if owner != "" {
				id = types.OwnerID(owner)
			}
			token, err := issuer.Issue(id)
			if err != nil {
				return err
			}

			if save {
				cfg.API.Token = token
				if err := cfg.Save(); err != nil {
					return fmt.Errorf("failed to save token: %w", err)
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Owner the token acts as (default: local user)")
	cmd.Flags().BoolVar(&save, "save", false, "Store the token in the config file")
	return cmd
}
