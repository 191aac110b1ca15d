package llm

import (
	"context"
	"errors"
	"fmt"
)

// FallbackClient asks a primary client first and a secondary one when the
// primary fails. Cancellation and deadline errors are returned as is.
type FallbackClient struct {
	primary  Client
	fallback Client
}

func NewFallbackClient(primary, fallback Client) *FallbackClient {
	return &FallbackClient{primary: primary, fallback: fallback}
}

// Name reports the primary provider.
func (c *FallbackClient) Name() string  { return c.primary.Name() }
func (c *FallbackClient) Model() string { return c.primary.Model() }

func (c *FallbackClient) Primary() Client   { return c.primary }
func (c *FallbackClient) Secondary() Client { return c.fallback }

func (c *FallbackClient) Complete(ctx context.Context, prompt string) (Result, error) {
	res, err := c.primary.Complete(ctx, prompt)
	if err == nil {
		return res, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || c.fallback == nil {
		return Result{}, err
	}

	fbRes, fbErr := c.fallback.Complete(ctx, prompt)
	if fbErr != nil {
		return Result{}, fmt.Errorf("primary %s: %w; fallback %s: %v", c.primary.Name(), err, c.fallback.Name(), fbErr)
	}
	return fbRes, nil
}
