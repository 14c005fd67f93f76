// Package payment charges cards through Stripe.
package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"github.com/festivapp/festival-api/internal/config"
)

// StripeProvider charges payment methods with Stripe PaymentIntents.
// Amounts are in the currency's smallest unit, matching how token
// prices are stored.
type StripeProvider struct {
	client   *client.API
	currency string
}

func NewStripeProvider(conf *config.StripeConfig) *StripeProvider {
	sc := &client.API{}
	sc.Init(conf.SecretKey, nil)

	return &StripeProvider{
		client:   sc,
		currency: conf.Currency,
	}
}

// Charge confirms a PaymentIntent immediately and returns its ID. An
// intent that does not reach the succeeded status is treated as a
// failed payment.
func (p *StripeProvider) Charge(ctx context.Context, amount int64, paymentMethodID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:        stripe.Int64(amount),
		Currency:      stripe.String(p.currency),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
	}

	intent, err := p.client.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("p.client.PaymentIntents.New -> %w", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("payment intent %s in status %s", intent.ID, intent.Status)
	}

	return intent.ID, nil
}
