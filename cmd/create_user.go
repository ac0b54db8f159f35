package cmd

import (
	"errors"
	"fmt"

	"assettracker/internal/database"
	"assettracker/internal/repository"
	"assettracker/internal/users"
	"assettracker/pkg/models"
	"assettracker/pkg/roles"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newCreateUserCmd(a *app) *cobra.Command {
	createUserCmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a login, typically the first admin.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req models.CreateUserRequest
			req.Username, _ = cmd.Flags().GetString("username")
			req.Password, _ = cmd.Flags().GetString("password")
			req.Fullname, _ = cmd.Flags().GetString("fullname")
			req.Role, _ = cmd.Flags().GetString("role")

			if req.Username == "" || len(req.Password) < 6 {
				return errors.New("--username and a --password of at least 6 characters are required")
			}
			if !roles.Role(req.Role).IsValid() {
				return fmt.Errorf("invalid role %q: must be admin or user", req.Role)
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			db, err := database.NewPostgresConnection(cmd.Context(), a.cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := users.NewRepository(repository.NewRepository(db)).PersistUser(cmd.Context(), req, hashedPassword); err != nil {
				return err
			}

			a.logger.Info("user created", zap.String("username", req.Username), zap.String("role", req.Role))
			return nil
		},
	}
	createUserCmd.Flags().String("username", "", "Login name")
	createUserCmd.Flags().String("password", "", "Password (min 6 characters)")
	createUserCmd.Flags().String("fullname", "", "Display name")
	createUserCmd.Flags().String("role", string(roles.Admin), "admin or user")

	return createUserCmd
}
