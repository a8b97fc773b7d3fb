// Command initdb applies the schema migrations, creates the bootstrap admin
// and prints a summary of the database.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/yigit/sis/internal/app/models"
	appRepos "github.com/yigit/sis/internal/app/repositories"
	appServices "github.com/yigit/sis/internal/app/services"
	"github.com/yigit/sis/internal/bootstrap"
)

func main() {
	if err := run(); err != nil {
		color.Red("initdb failed: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	color.Cyan("\n=== Schema migrations ===")
	results, err := bootstrap.RunMigrations(ctx, pool, lgr)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Version", "File", "Status"})
	for _, r := range results {
		status := "already applied"
		if r.Applied {
			status = "applied"
		}
		table.Append([]string{r.Version, r.File, status})
	}
	table.Render()

	color.Cyan("\n=== Bootstrap admin ===")
	created, err := bootstrap.SeedAdmin(ctx, cfg, pool, lgr)
	if err != nil {
		return fmt.Errorf("seed bootstrap admin: %w", err)
	}
	if created {
		color.Green("Created admin %s", cfg.Bootstrap.AdminAccountNo)
	} else {
		color.Yellow("Admin %s already exists; password left unchanged", cfg.Bootstrap.AdminAccountNo)
	}

	accounts := appServices.NewAccountService(appRepos.NewStore(pool), appServices.Options{}, lgr)
	counts, err := accounts.CountByRole(ctx)
	if err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}

	color.Cyan("\n=== Accounts ===")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Role", "Accounts"})
	for _, role := range models.Roles {
		table.Append([]string{role.String(), strconv.Itoa(counts[role])})
	}
	table.Render()

	color.Green("\nDatabase ready.")
	return nil
}
