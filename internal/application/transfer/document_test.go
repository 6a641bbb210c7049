package transfer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/transfer"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

type stubGenerator struct {
	calls int
}

func (g *stubGenerator) GenerateRemissionPDF(_ context.Context, _ *entity.StockTransfer) ([]byte, error) {
	g.calls++
	return []byte("%PDF-1.7 stub"), nil
}

func TestGenerateRemission_SoloTrasladosDespachables(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	gen := &stubGenerator{}
	doc := transfer.NewDocumentUseCase(f.store.Transfers(), gen)

	tr, err := f.uc.CreateTransfer(ctx, tenantA, userID, userName, transferRequest(false))
	require.NoError(t, err)

	// Un borrador no tiene remisión.
	_, err = doc.GenerateRemission(ctx, tenantA, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Zero(t, gen.calls)

	_, err = f.uc.SubmitTransfer(ctx, tenantA, tr.ID)
	require.NoError(t, err)
	f.shipAll(t, tr.ID)

	pdf, err := doc.GenerateRemission(ctx, tenantA, tr.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, gen.calls)

	// Tenant ajeno no ve el documento.
	_, err = doc.GenerateRemission(ctx, tenantB, tr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
