package entity

import "strings"

// Roles válidos para un actor.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleCashier = "CASHIER"
)

// SystemActorID actor registrado en filas generadas por procesos internos.
const SystemActorID = "system"

// Actor usuario autenticado que ejecuta una operación.
type Actor struct {
	ID   string
	Role string
}

// HasRole compara sin distinguir mayúsculas.
func (a Actor) HasRole(roles ...string) bool {
	for _, r := range roles {
		if strings.EqualFold(a.Role, r) {
			return true
		}
	}
	return false
}

// CanReviewExpenses solo ADMIN y MANAGER aprueban o rechazan gastos.
func (a Actor) CanReviewExpenses() bool {
	return a.HasRole(RoleAdmin, RoleManager)
}
