package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/pkg/jwt"
)

// newTokenCmd emite un JWT firmado con JWT_SECRET. La autenticación de usuarios
// vive fuera de este servicio; el comando sirve para desarrollo y pruebas manuales.
func newTokenCmd() *cobra.Command {
	var (
		userID, branchID, role string
		minutes                int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un Bearer token para un usuario y rol",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadEnv()
			if err != nil {
				return err
			}
			role = strings.ToUpper(strings.TrimSpace(role))
			switch role {
			case entity.RoleAdmin, entity.RoleManager, entity.RoleCashier:
			default:
				return fmt.Errorf("rol inválido %q (ADMIN, MANAGER o CASHIER)", role)
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, userID, branchID, role, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "id del usuario (obligatorio)")
	cmd.Flags().StringVar(&branchID, "branch", "", "sucursal por defecto del usuario")
	cmd.Flags().StringVar(&role, "role", entity.RoleCashier, "ADMIN | MANAGER | CASHIER")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
