package payment

import (
	"testing"
	"time"

	"github.com/example/shophub/pkg/config"
	"github.com/example/shophub/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	p, err := NewProcessor(&config.PaymentConfig{
		ProcessingDelay: time.Millisecond,
		ChargeTimeout:   5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(p.Stop)
	return p
}

func charge(t *testing.T, p *Processor, method string) *ChargeResult {
	t.Helper()
	result, err := p.Charge(&ChargeRequest{
		UserID: "user-1",
		Method: method,
		Amount: decimal.RequireFromString("49.99"),
	})
	require.NoError(t, err)
	return result
}

func TestCardChargeCompletes(t *testing.T) {
	p := newTestProcessor(t)
	result := charge(t, p, models.PaymentMethodCard)
	assert.Equal(t, models.PaymentStatusCompleted, result.Status)
	assert.NotEmpty(t, result.Reference)
}

func TestUPIChargeCompletes(t *testing.T) {
	p := newTestProcessor(t)
	result := charge(t, p, models.PaymentMethodUPI)
	assert.Equal(t, models.PaymentStatusCompleted, result.Status)
}

func TestCODChargeStaysPending(t *testing.T) {
	p := newTestProcessor(t)
	result := charge(t, p, models.PaymentMethodCOD)
	assert.Equal(t, models.PaymentStatusPending, result.Status)
}

func TestUnknownMethodFails(t *testing.T) {
	p := newTestProcessor(t)
	result := charge(t, p, "cheque")
	assert.Equal(t, models.PaymentStatusFailed, result.Status)
}
