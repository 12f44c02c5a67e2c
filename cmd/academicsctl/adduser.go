package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/user"
	"github.com/ovaphlow/pitchfork/service-academics/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-academics/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-academics/pkg/database"
)

// registrar creates accounts.
type registrar interface {
	Register(ctx context.Context, in entity.Registration) (int64, error)
}

func newAddUserCmd(logger *zap.SugaredLogger) *cobra.Command {
	var in entity.Registration
	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Register a student or professor account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := database.ConfigFromEnv()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := user.NewService(userrepo.NewUserRepo(db), nil, nil, 0)
			return addUser(cmd.Context(), svc, in, cmd.OutOrStdout(), logger)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "account email")
	f.StringVar(&in.Password, "password", "", "initial password")
	f.StringVar(&in.Name, "name", "", "display name")
	f.StringVar(&in.Department, "department", "", "department")
	f.StringVar(&in.Role, "role", "Student", "Student or Professor")
	f.StringVar(&in.EntryDate, "entry-date", "", "entry date YYYY-MM-DD (students)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func addUser(ctx context.Context, reg registrar, in entity.Registration, out io.Writer, logger *zap.SugaredLogger) error {
	id, err := reg.Register(ctx, in)
	if err != nil {
		logger.Warnw("add-user failed", "email", in.Email, "err", err)
		return err
	}
	logger.Infow("account registered", "id", id, "role", in.Role)
	_, err = fmt.Fprintf(out, "registered %s %s with id %d\n", in.Role, in.Email, id)
	return err
}
