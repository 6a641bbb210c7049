package sequence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/sequence"
)

// fakeCounter implementa CounterStore en memoria.
type fakeCounter struct {
	values map[string]int64
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{values: make(map[string]int64)}
}

func (f *fakeCounter) Next(tenantID, kind string) (int64, error) {
	key := tenantID + "/" + kind
	f.values[key]++
	return f.values[key], nil
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
}

// Formato exacto de los consecutivos: prefijo, año y ancho fijo con ceros.
func TestSequencer_FormatoDeNumeros(t *testing.T) {
	seq := sequence.NewWithClock(newFakeCounter(), fixedClock)

	mov, err := seq.MovementNumber("tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "MOV-2025-00000001", mov, "movimiento: 8 dígitos con ceros a la izquierda")

	xfer, err := seq.TransferNumber("tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "XFER-2025-000001", xfer, "traslado: 6 dígitos con ceros a la izquierda")
}

// Los consecutivos avanzan de a uno, sin huecos ni repetidos.
func TestSequencer_ConsecutivosSinHuecos(t *testing.T) {
	seq := sequence.NewWithClock(newFakeCounter(), fixedClock)

	seen := make(map[string]bool)
	for i := 1; i <= 5; i++ {
		n, err := seq.MovementNumber("tenant-1")
		require.NoError(t, err)
		assert.False(t, seen[n], "número repetido: %s", n)
		seen[n] = true
	}
	assert.True(t, seen["MOV-2025-00000005"], "tras 5 asignaciones el contador debe ir en 5")
}

// Cada tenant lleva su propio contador; cada tipo de documento también.
func TestSequencer_ContadoresIndependientes(t *testing.T) {
	seq := sequence.NewWithClock(newFakeCounter(), fixedClock)

	a1, err := seq.MovementNumber("tenant-a")
	require.NoError(t, err)
	b1, err := seq.MovementNumber("tenant-b")
	require.NoError(t, err)
	assert.Equal(t, "MOV-2025-00000001", a1)
	assert.Equal(t, "MOV-2025-00000001", b1, "el contador del tenant B no se ve afectado por el A")

	// Movimientos y traslados del mismo tenant no comparten contador.
	x1, err := seq.TransferNumber("tenant-a")
	require.NoError(t, err)
	assert.Equal(t, "XFER-2025-000001", x1)

	a2, err := seq.MovementNumber("tenant-a")
	require.NoError(t, err)
	assert.Equal(t, "MOV-2025-00000002", a2)
}
