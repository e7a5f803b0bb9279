// Command ledgerctl tareas operativas del ledger: migraciones y tokens de desarrollo.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd arma el árbol de comandos. out recibe la salida de los comandos.
func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Herramientas operativas del ledger de inventario",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.AddCommand(newMigrateCmd(), newTokenCmd())
	return root
}

// loadEnv configuración y logger comunes a todos los comandos.
func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Name: "ledgerctl"})
	return cfg, log, nil
}
