package transfer

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// RemissionGenerator genera la remisión (packing slip) de un traslado.
// Implementado en infraestructura (Maroto).
type RemissionGenerator interface {
	GenerateRemissionPDF(ctx context.Context, t *entity.StockTransfer) ([]byte, error)
}

// DocumentUseCase produce el documento de remisión que acompaña físicamente un
// traslado despachado.
type DocumentUseCase struct {
	transfers repository.TransferRepository
	generator RemissionGenerator
}

// NewDocumentUseCase construye el caso de uso de documentos.
func NewDocumentUseCase(transfers repository.TransferRepository, generator RemissionGenerator) *DocumentUseCase {
	return &DocumentUseCase{transfers: transfers, generator: generator}
}

// GenerateRemission genera el PDF de remisión de un traslado ya despachable.
// Un borrador o un traslado pendiente de aprobación no tiene documento aún.
func (uc *DocumentUseCase) GenerateRemission(ctx context.Context, tenantID, transferID string) ([]byte, error) {
	t, err := uc.transfers.Get(tenantID, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFoundf("transfer %s not found", transferID)
	}
	switch t.Status {
	case entity.TransferStatusDraft, entity.TransferStatusPendingApproval, entity.TransferStatusCancelled:
		return nil, domain.InvalidStatef("transfer has no remission document in status %s", t.Status)
	}
	return uc.generator.GenerateRemissionPDF(ctx, t)
}
