package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// BranchRepository lectura de sucursales (datos maestros administrados fuera del ledger).
type BranchRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	// NamesByIDs devuelve solo los ids encontrados.
	NamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}
