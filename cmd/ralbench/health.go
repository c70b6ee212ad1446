package main

import (
	"fmt"
	"os"

	"github.com/ralbench/ralbench/pkg/database"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity and configured provider credentials",
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration/database error: %v\n", err)
		os.Exit(exitGeneralError)
		return nil
	}
	defer a.Close()

	ok := true

	dbHealth, err := database.Health(ctx, a.db.DB())
	if err != nil {
		fmt.Printf("database: unhealthy (%v)\n", err)
		ok = false
	} else {
		fmt.Printf("database: %s (%dms)\n", dbHealth.Status, dbHealth.ResponseTime.Milliseconds())
	}

	for name, provider := range a.cfg.LLMProviderRegistry.GetAll() {
		if provider.APIKeyEnv == "" {
			fmt.Printf("provider %s: no credential required\n", name)
			continue
		}
		if os.Getenv(provider.APIKeyEnv) == "" {
			fmt.Printf("provider %s: missing %s\n", name, provider.APIKeyEnv)
			ok = false
			continue
		}
		fmt.Printf("provider %s: credential present\n", name)
	}

	if !ok {
		os.Exit(exitGeneralError)
	}
	return nil
}
