package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig configures exponential backoff between attempts.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint `yaml:"max_retries" mapstructure:"max_retries"`
	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration `yaml:"initial_interval" mapstructure:"initial_interval"`
	// MaxInterval caps the delay between two attempts.
	MaxInterval time.Duration `yaml:"max_interval" mapstructure:"max_interval"`
	// MaxElapsedTime bounds the whole retry loop. Zero means no bound.
	MaxElapsedTime time.Duration `yaml:"max_elapsed_time" mapstructure:"max_elapsed_time"`
	// OnRetry is called before sleeping for the next attempt.
	OnRetry func(err error, wait time.Duration) `yaml:"-" mapstructure:"-"`
}

// DefaultRetryConfig returns a default retry config suitable for HTTP clients.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsedTime:  10 * time.Second,
	}
}

// Validate checks that the retry configuration is usable.
func (c *RetryConfig) Validate() error {
	if c.InitialInterval < 0 || c.MaxInterval < 0 || c.MaxElapsedTime < 0 {
		return fmt.Errorf("httpclient: retry intervals must not be negative")
	}
	if c.MaxInterval > 0 && c.InitialInterval > c.MaxInterval {
		return fmt.Errorf("httpclient: retry initial_interval exceeds max_interval")
	}
	return nil
}

func (c *RetryConfig) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		exp.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		exp.MaxInterval = c.MaxInterval
	}
	exp.MaxElapsedTime = c.MaxElapsedTime

	var bo backoff.BackOff = exp
	bo = backoff.WithMaxRetries(bo, uint64(c.MaxRetries))
	return backoff.WithContext(bo, ctx)
}

// retry runs op until it succeeds, returns a non-retryable error, or the
// backoff policy gives up. The last error of op is returned as-is, also
// when the context ends the loop; a context that ends before any attempt
// yields a timeout error.
func (c *RetryConfig) retry(ctx context.Context, op func() error) error {
	var last error
	wrapped := func() error {
		err := op()
		last = err
		if err != nil && !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	var notify backoff.Notify
	if c.OnRetry != nil {
		notify = c.OnRetry
	}

	err := backoff.RetryNotify(wrapped, c.newBackOff(ctx), notify)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		if last != nil {
			return last
		}
		return NewTimeoutError(err)
	}
	return err
}
