// Package payment runs the simulated payment gateway behind checkout.
// Charges are processed by an actor that models the gateway's fixed
// processing delay and replies with a charge result.
package payment

import (
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/shophub/pkg/config"
	"github.com/example/shophub/pkg/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ChargeRequest asks the gateway to take payment for an order total.
type ChargeRequest struct {
	UserID string
	Method string
	Amount decimal.Decimal
}

type ChargeResult struct {
	Status    string // payment status: completed, pending or failed
	Reference string
}

type chargeActor struct {
	logger *zap.Logger
	delay  time.Duration
}

func (a *chargeActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *ChargeRequest:
		a.logger.Info("Processing charge",
			zap.String("user_id", msg.UserID),
			zap.String("method", msg.Method),
			zap.String("amount", msg.Amount.String()))

		// Simulate gateway latency
		time.Sleep(a.delay)

		ctx.Respond(&ChargeResult{
			Status:    statusFor(msg.Method),
			Reference: fmt.Sprintf("PAY-%d", time.Now().UnixNano()),
		})

	case *actor.Started:
		a.logger.Info("Payment actor started")

	case *actor.Stopped:
		a.logger.Info("Payment actor stopped")
	}
}

// Cash on delivery is collected later, so its payment stays pending.
// Card and UPI charges complete immediately; anything else fails.
func statusFor(method string) string {
	switch method {
	case models.PaymentMethodCard, models.PaymentMethodUPI:
		return models.PaymentStatusCompleted
	case models.PaymentMethodCOD:
		return models.PaymentStatusPending
	default:
		return models.PaymentStatusFailed
	}
}

// Processor is the checkout-facing handle to the payment actor.
type Processor struct {
	system  *actor.ActorSystem
	pid     *actor.PID
	timeout time.Duration
}

func NewProcessor(cfg *config.PaymentConfig, logger *zap.Logger) (*Processor, error) {
	system := actor.NewActorSystem()

	props := actor.PropsFromProducer(func() actor.Actor {
		return &chargeActor{
			logger: logger.Named("payment-actor"),
			delay:  cfg.ProcessingDelay,
		}
	})
	pid, err := system.Root.SpawnNamed(props, "payment-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn payment actor: %w", err)
	}

	return &Processor{
		system:  system,
		pid:     pid,
		timeout: cfg.ChargeTimeout,
	}, nil
}

// Charge sends the request to the payment actor and waits for the
// result or the configured timeout.
func (p *Processor) Charge(req *ChargeRequest) (*ChargeResult, error) {
	future := p.system.Root.RequestFuture(p.pid, req, p.timeout)
	result, err := future.Result()
	if err != nil {
		return nil, fmt.Errorf("payment processing: %w", err)
	}

	res, ok := result.(*ChargeResult)
	if !ok {
		return nil, fmt.Errorf("unexpected payment response type %T", result)
	}
	return res, nil
}

func (p *Processor) Stop() {
	p.system.Root.Stop(p.pid)
}
