package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/atomiclibrary/atom/src/aisdk"
	"github.com/atomiclibrary/atom/src/config"
	"github.com/atomiclibrary/atom/src/orclient"
)

// CompletionClient is the single-attempt upstream call the dispatcher drives.
// *orclient.Client satisfies it.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error)
}

// ClientFactory resolves the client holding the credential for a provider
// slot and role.
type ClientFactory func(role Role, id ProviderID) CompletionClient

// Options configures a Dispatcher.
type Options struct {
	Pool    *Pool
	Clients ClientFactory
	Request config.RequestConfig
	Timing  config.DispatchConfig
	Logger  *slog.Logger

	// OnProviderSwitch, when set, is told which provider slot is active
	// before each attempt. Purely informational, consumed by the host UI.
	OnProviderSwitch func(ProviderID)
}

// Dispatcher executes completion requests with deterministic failover:
// sequential attempts, fixed provider rotation 1→2→3, fixed inter-attempt
// delay, primary model on the first chat attempt and backup afterwards.
// It holds no session state and is safe to reuse across turns as long as
// the caller serializes them.
type Dispatcher struct {
	pool     *Pool
	clients  ClientFactory
	request  config.RequestConfig
	timing   config.DispatchConfig
	logger   *slog.Logger
	onSwitch func(ProviderID)
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		pool:     opts.Pool,
		clients:  opts.Clients,
		request:  opts.Request,
		timing:   opts.Timing,
		logger:   logger.With("component", "dispatcher"),
		onSwitch: opts.OnProviderSwitch,
	}
}

// Dispatch sends messages to the upstream completion endpoint, failing over
// across the provider pool. It returns the first successful completion text,
// or an *ExhaustedRetriesError once the attempt budget is spent. The parent
// context bounds the whole dispatch; each attempt additionally gets its own
// role-specific deadline.
func (d *Dispatcher) Dispatch(ctx context.Context, messages []*aisdk.Message, role Role) (string, error) {
	timeout := d.timing.ChatTimeout()
	if role == RoleVision {
		timeout = d.timing.VisionTimeout()
	}

	var lastErr error
	provider := FirstProvider

	for attempt := 0; attempt < d.timing.MaxRetries; attempt++ {
		if d.onSwitch != nil {
			d.onSwitch(provider)
		}

		model := d.pool.ModelFor(role, attempt)
		logger := d.logger.With("role", string(role), "attempt", attempt+1, "provider", int(provider), "model", model)
		logger.Debug("dispatching attempt")

		text, err := d.attempt(ctx, role, provider, model, messages, timeout)
		if err == nil {
			logger.Info("dispatch succeeded")
			return text, nil
		}

		lastErr = err
		logger.Warn("attempt failed", "error", err)

		provider = NextProviderID(provider)

		// Fixed delay before moving to the next slot, skipped after the
		// final attempt.
		if attempt < d.timing.MaxRetries-1 {
			if err := sleep(ctx, d.timing.RetryDelay()); err != nil {
				return "", &ExhaustedRetriesError{Attempts: attempt + 1, LastErr: err}
			}
		}
	}

	d.logger.Error("dispatch exhausted all providers", "role", string(role), "error", lastErr)
	return "", &ExhaustedRetriesError{Attempts: d.timing.MaxRetries, LastErr: lastErr}
}

// attempt performs one bounded upstream call.
func (d *Dispatcher) attempt(ctx context.Context, role Role, provider ProviderID, model string, messages []*aisdk.Message, timeout time.Duration) (string, error) {
	if _, err := d.pool.Credential(provider, role); err != nil {
		return "", &AttemptError{Provider: provider, Model: model, Err: err}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := &aisdk.ChatCompletionRequest{
		Model:            model,
		Messages:         messages,
		MaxTokens:        &d.request.MaxTokens,
		Temperature:      &d.request.Temperature,
		TopP:             &d.request.TopP,
		FrequencyPenalty: &d.request.FrequencyPenalty,
		PresencePenalty:  &d.request.PresencePenalty,
	}

	resp, err := d.clients(role, provider).CreateChatCompletion(attemptCtx, req)
	if err != nil {
		timedOut := errors.Is(err, orclient.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
		return "", &AttemptError{Provider: provider, Model: model, Err: err, Timeout: timedOut}
	}

	text, err := resp.Text()
	if err != nil {
		return "", &AttemptError{Provider: provider, Model: model, Err: err}
	}
	return text, nil
}

// sleep waits for the inter-attempt delay, aborting early when the parent
// context is done so a cancelled turn never keeps a timer alive.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
