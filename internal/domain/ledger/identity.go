package ledger

import (
	"strings"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// ResolveKey normaliza la identidad de un StockRecord. Variación y lote ausentes
// (nil o vacíos) se reemplazan por entity.NoneID para que la búsqueda sea
// determinista. Sucursal y producto son obligatorios.
func ResolveKey(branchID, productID string, variationID, batchID *string) (entity.StockKey, error) {
	branchID = strings.TrimSpace(branchID)
	productID = strings.TrimSpace(productID)
	if branchID == "" {
		return entity.StockKey{}, domain.Wrap(domain.ErrInvalidIdentity, "branch_id es obligatorio")
	}
	if productID == "" {
		return entity.StockKey{}, domain.Wrap(domain.ErrInvalidIdentity, "product_id es obligatorio")
	}
	return entity.StockKey{
		BranchID:    branchID,
		ProductID:   productID,
		VariationID: orNone(variationID),
		BatchID:     orNone(batchID),
	}, nil
}

// IsNone indica si id es el centinela de variación/lote ausente.
func IsNone(id string) bool {
	return id == "" || id == entity.NoneID
}

func orNone(id *string) string {
	if id == nil {
		return entity.NoneID
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return entity.NoneID
	}
	return v
}
