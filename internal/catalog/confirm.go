package catalog

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopexplorer/storefront/pkg/config"
	pkgerrors "github.com/shopexplorer/storefront/pkg/errors"
	"github.com/shopexplorer/storefront/pkg/logger"
)

// Confirmer simulates the remote add-to-cart acknowledgment: a fixed delay
// followed by a stochastic failure. A real deployment would swap this for a
// call against the order backend and propagate its result.
type Confirmer struct {
	delay       time.Duration
	failureRate float64
	roll        func() float64
	logg        *logger.Logger
}

// ConfirmerParams collects the simulator dependencies. Roll is the randomness
// source, overridable in tests; nil uses the process-wide generator.
type ConfirmerParams struct {
	Config config.ConfirmConfig
	Logger *logger.Logger
	Roll   func() float64
}

// NewConfirmer builds the simulated confirmation endpoint.
func NewConfirmer(params ConfirmerParams) (*Confirmer, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "confirmer logger required")
	}
	roll := params.Roll
	if roll == nil {
		roll = rand.Float64
	}
	return &Confirmer{
		delay:       params.Config.Delay,
		failureRate: params.Config.FailureRate,
		roll:        roll,
		logg:        params.Logger,
	}, nil
}

// ConfirmAddToCart waits the configured delay and then acknowledges or
// rejects the addition. Context cancellation aborts the wait.
func (c *Confirmer) ConfirmAddToCart(ctx context.Context, productID int) error {
	ctx = c.logg.WithProductID(ctx, productID)

	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return pkgerrors.Wrap(pkgerrors.CodeTransport, ctx.Err(), "confirmation canceled")
		case <-timer.C:
		}
	}

	if c.roll() < c.failureRate {
		c.logg.Warn(ctx, "simulated cart confirmation rejected")
		return pkgerrors.New(pkgerrors.CodeConfirmRejected, "failed to add product to cart")
	}

	c.logg.Debug(ctx, "cart confirmation acknowledged")
	return nil
}
