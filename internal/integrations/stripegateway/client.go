package stripegateway

import (
	"context"
	"fmt"
	"time"

	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"go.uber.org/zap"
)

// Gateway implements usecase.PaymentGateway on top of the Stripe API.
type Gateway struct {
	api         *client.API
	frontendURL string
	timeout     time.Duration
	log         *zap.Logger
}

func New(config *utils.Config, log *zap.Logger) *Gateway {
	api := &client.API{}
	api.Init(config.Stripe.SecretKey, nil)

	return &Gateway{
		api:         api,
		frontendURL: config.Stripe.FrontendURL,
		timeout:     time.Duration(config.Stripe.TimeoutSeconds) * time.Second,
		log:         log.With(zap.String("integration", "stripe")),
	}
}

func (g *Gateway) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, p usecase.CheckoutParams) (string, error) {
	callCtx, cancel := g.callCtx(ctx)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ServiceName),
					},
					UnitAmount: stripe.Int64(p.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			TransferGroup: stripe.String(p.ReferenceID.String()),
			Metadata: map[string]string{
				"referenceId": p.ReferenceID.String(),
			},
		},
		Metadata: map[string]string{
			"referenceId": p.ReferenceID.String(),
		},
		SuccessURL: stripe.String(g.frontendURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.frontendURL + "/payment/cancelled"),
	}
	params.Context = callCtx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session for %s: %w", p.ReferenceID.String(), err)
	}

	g.log.Info("Checkout session created",
		zap.String("reference_id", p.ReferenceID.String()),
		zap.String("session_id", session.ID),
	)
	return session.URL, nil
}

// RetrieveChargeFee walks session -> payment intent -> latest charge ->
// balance transaction to get the authoritative fee in minor units.
func (g *Gateway) RetrieveChargeFee(ctx context.Context, sessionID string) (int64, error) {
	callCtx, cancel := g.callCtx(ctx)
	defer cancel()

	sessionParams := &stripe.CheckoutSessionParams{}
	sessionParams.Context = callCtx
	session, err := g.api.CheckoutSessions.Get(sessionID, sessionParams)
	if err != nil {
		return 0, fmt.Errorf("retrieve checkout session %s: %w", sessionID, err)
	}
	if session.PaymentIntent == nil {
		return 0, fmt.Errorf("checkout session %s has no payment intent", sessionID)
	}

	intentParams := &stripe.PaymentIntentParams{}
	intentParams.Context = callCtx
	intent, err := g.api.PaymentIntents.Get(session.PaymentIntent.ID, intentParams)
	if err != nil {
		return 0, fmt.Errorf("retrieve payment intent %s: %w", session.PaymentIntent.ID, err)
	}
	if intent.LatestCharge == nil {
		return 0, fmt.Errorf("payment intent %s has no charge", intent.ID)
	}

	chargeParams := &stripe.ChargeParams{}
	chargeParams.Context = callCtx
	chargeParams.AddExpand("balance_transaction")
	charge, err := g.api.Charges.Get(intent.LatestCharge.ID, chargeParams)
	if err != nil {
		return 0, fmt.Errorf("retrieve charge %s: %w", intent.LatestCharge.ID, err)
	}
	if charge.BalanceTransaction == nil {
		return 0, fmt.Errorf("charge %s has no balance transaction", charge.ID)
	}

	return charge.BalanceTransaction.Fee, nil
}

func (g *Gateway) TransferFunds(ctx context.Context, destinationAccount string, amountMinor int64, referenceID uuid.UUID) (string, error) {
	callCtx, cancel := g.callCtx(ctx)
	defer cancel()

	params := &stripe.TransferParams{
		Amount:        stripe.Int64(amountMinor),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		Destination:   stripe.String(destinationAccount),
		TransferGroup: stripe.String(referenceID.String()),
		Metadata: map[string]string{
			"referenceId": referenceID.String(),
		},
	}
	params.Context = callCtx

	transfer, err := g.api.Transfers.New(params)
	if err != nil {
		return "", fmt.Errorf("transfer funds for %s: %w", referenceID.String(), err)
	}

	g.log.Info("Transfer created",
		zap.String("reference_id", referenceID.String()),
		zap.String("transfer_id", transfer.ID),
		zap.Int64("amount_minor", amountMinor),
	)
	return transfer.ID, nil
}

func (g *Gateway) Refund(ctx context.Context, transactionID string) error {
	callCtx, cancel := g.callCtx(ctx)
	defer cancel()

	sessionParams := &stripe.CheckoutSessionParams{}
	sessionParams.Context = callCtx
	session, err := g.api.CheckoutSessions.Get(transactionID, sessionParams)
	if err != nil {
		return fmt.Errorf("retrieve checkout session %s: %w", transactionID, err)
	}
	if session.PaymentIntent == nil {
		return fmt.Errorf("checkout session %s has no payment intent", transactionID)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(session.PaymentIntent.ID),
	}
	params.Context = callCtx

	refund, err := g.api.Refunds.New(params)
	if err != nil {
		return fmt.Errorf("refund payment intent %s: %w", session.PaymentIntent.ID, err)
	}

	g.log.Info("Refund created",
		zap.String("transaction_id", transactionID),
		zap.String("refund_id", refund.ID),
	)
	return nil
}
