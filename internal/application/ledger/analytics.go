package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ItemActivity actividad de un ítem dentro del período consultado.
type ItemActivity struct {
	ItemID    string `json:"item_id"`
	ItemCode  string `json:"item_code"`
	Movements int    `json:"movements"`
}

// MovementAnalytics agregados de movimientos de una bodega en un rango de fechas.
type MovementAnalytics struct {
	TotalMovements int             `json:"total_movements"`
	ByType         map[string]int  `json:"by_type"`
	ByStatus       map[string]int  `json:"by_status"`
	TotalInbound   decimal.Decimal `json:"total_inbound"`
	TotalOutbound  decimal.Decimal `json:"total_outbound"`
	TopItems       []ItemActivity  `json:"top_items"`
}

// GetMovementAnalytics agrega los movimientos de una bodega por tipo, estado y
// dirección, con el top 10 de ítems por actividad.
func (uc *UseCase) GetMovementAnalytics(ctx context.Context, tenantID, warehouseID string, from, to time.Time) (*MovementAnalytics, error) {
	movements, err := uc.movements.ListByWarehouseRange(tenantID, warehouseID, from, to)
	if err != nil {
		return nil, err
	}

	out := &MovementAnalytics{
		TotalMovements: len(movements),
		ByType:         make(map[string]int),
		ByStatus:       make(map[string]int),
		TotalInbound:   decimal.Zero,
		TotalOutbound:  decimal.Zero,
	}
	counts := make(map[string]*ItemActivity)

	for _, m := range movements {
		out.ByType[m.Type]++
		out.ByStatus[m.Status]++

		if m.Inbound() {
			out.TotalInbound = out.TotalInbound.Add(m.Quantity)
		} else {
			out.TotalOutbound = out.TotalOutbound.Add(m.Quantity.Abs())
		}

		item, ok := counts[m.ItemID]
		if !ok {
			item = &ItemActivity{ItemID: m.ItemID, ItemCode: m.ItemCode}
			counts[m.ItemID] = item
		}
		item.Movements++
	}

	top := make([]ItemActivity, 0, len(counts))
	for _, item := range counts {
		top = append(top, *item)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Movements != top[j].Movements {
			return top[i].Movements > top[j].Movements
		}
		return top[i].ItemID < top[j].ItemID
	})
	if len(top) > 10 {
		top = top[:10]
	}
	out.TopItems = top

	return out, nil
}
