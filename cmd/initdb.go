package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/services"
	"github.com/spf13/cobra"
)

func newInitDBCmd() *cobra.Command {
	var noSamples bool
	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the default administrator and portfolio",
		Long: `Create the default administrator from ADMIN_EMAIL/ADMIN_PASSWORD when no
administrator exists, create the portfolio with its default content, and add
sample projects when the project list is empty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())
			return initDB(ctx, a, !noSamples, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&noSamples, "no-samples", false, "do not add sample projects")
	return cmd
}

func initDB(ctx context.Context, a *app, samples bool, out io.Writer) error {
	created, err := a.credentials.BootstrapDefault(ctx, a.cfg.AdminEmail, a.cfg.AdminPassword)
	switch {
	case errors.Is(err, services.ErrMissingBootstrapCredentials):
		return err
	case err != nil:
		return fmt.Errorf("create admin: %w", err)
	case created:
		fmt.Fprintf(out, "Admin user created: %s\n", services.NormalizeEmail(a.cfg.AdminEmail))
	default:
		fmt.Fprintln(out, "Admin user already exists")
	}

	p, err := a.content.Get(ctx)
	if err != nil {
		return fmt.Errorf("create portfolio: %w", err)
	}
	fmt.Fprintln(out, "Portfolio ready")

	if !samples || len(p.Projects.Items) > 0 {
		return nil
	}
	for _, sample := range models.SampleProjects() {
		order := sample.Order
		if _, err := a.content.AddProject(ctx, services.ProjectInput{
			Title:        sample.Title,
			Description:  sample.Description,
			Technologies: sample.Technologies,
			FrontendURL:  sample.FrontendURL,
			BackendURL:   sample.BackendURL,
			LiveURL:      sample.LiveURL,
			Image:        sample.Image,
			Featured:     sample.Featured,
			Order:        &order,
		}); err != nil {
			return fmt.Errorf("add sample project: %w", err)
		}
	}
	fmt.Fprintf(out, "Added %d sample projects\n", len(models.SampleProjects()))
	return nil
}
