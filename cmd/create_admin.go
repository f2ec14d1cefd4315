package cmd

import (
	"errors"

	"ecommerce-api/config"
	"ecommerce-api/repository"
	"ecommerce-api/service"

	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminPassword == "" {
			return errors.New("--email and --password are required")
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := config.NewLogger(cfg.LogLevel)
		db, err := config.Connection(cfg, log)
		if err != nil {
			return err
		}
		users := service.NewUserService(repository.NewUserRepository(db), cfg.DBTimeout)
		user, err := users.CreateAdmin(cmd.Context(), service.UserInput{Email: adminEmail, Password: adminPassword})
		if err != nil {
			return err
		}
		log.WithField("user_id", user.ID).Info("administrator created")
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Administrator email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Administrator password")
}
