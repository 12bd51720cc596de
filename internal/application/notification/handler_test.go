package notification

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

type sent struct{ userID, subject, body string }

type fakeNotifier struct{ calls []sent }

func (f *fakeNotifier) Notify(_ context.Context, userID, subject, body string) error {
	f.calls = append(f.calls, sent{userID, subject, body})
	return nil
}

func TestHandleEvent(t *testing.T) {
	n := &fakeNotifier{}
	h := NewHandler(n, logger.Nop())

	raw, err := json.Marshal(ports.OrderEvent{
		Type: ports.EventOrderCreated, OrderID: "o1", UserID: "u1",
		TotalAmount: decimal.NewFromInt(20), Items: []ports.OrderEventItem{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(context.Background(), nil, raw))

	require.Len(t, n.calls, 1)
	assert.Equal(t, "u1", n.calls[0].userID)
	assert.Contains(t, n.calls[0].body, "20.00")

	raw, _ = json.Marshal(ports.OrderEvent{Type: "order.unknown"})
	require.NoError(t, h.HandleEvent(context.Background(), nil, raw))
	assert.Len(t, n.calls, 1)

	assert.Error(t, h.HandleEvent(context.Background(), nil, []byte("{")))
}
