// Command academicsctl runs operator tasks against the academics store.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/pkg/utilities"
)

func main() {
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	if err := newRootCmd(lg.Sugar()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *zap.SugaredLogger) *cobra.Command {
	root := &cobra.Command{
		Use:          "academicsctl",
		Short:        "Operator tasks for the academic records service",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(logger), newAddUserCmd(logger))
	return root
}
