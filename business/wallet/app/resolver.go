package app

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/casino-dapp/business/wallet/domain"
	"github.com/fd1az/casino-dapp/internal/apperror"
	"github.com/fd1az/casino-dapp/internal/logger"
)

const tracerName = "github.com/fd1az/casino-dapp/business/wallet/app"

// ResolverConfig holds provider discovery settings.
type ResolverConfig struct {
	InjectedURL       string        // wallet/signer endpoint, preferred when set
	FallbackURL       string        // local development node
	HandshakeAttempts uint          // fallback handshake attempts
	HandshakeDelay    time.Duration // delay between fallback handshake attempts
}

// ProviderResolver discovers the provider to use for a session.
// An injected provider always wins over the local fallback.
type ProviderResolver struct {
	config   ResolverConfig
	dialer   Dialer
	injected Provider
	logger   logger.LoggerInterface
	tracer   trace.Tracer
}

// ResolverOption configures a ProviderResolver.
type ResolverOption func(*ProviderResolver)

// WithInjected hands the resolver a provider supplied by the host program.
// The host keeps ownership: Close on the provider returned by Resolve is a
// no-op, so it survives failed sessions and can be resolved again.
func WithInjected(p Provider) ResolverOption {
	return func(r *ProviderResolver) {
		if p != nil {
			r.injected = borrowed{p}
		}
	}
}

// borrowed is a provider the resolver does not own.
type borrowed struct {
	Provider
}

func (borrowed) Close() {}

// NewProviderResolver creates a resolver.
func NewProviderResolver(cfg ResolverConfig, dialer Dialer, log logger.LoggerInterface, opts ...ResolverOption) *ProviderResolver {
	if cfg.HandshakeAttempts == 0 {
		cfg.HandshakeAttempts = 1
	}

	r := &ProviderResolver{
		config: cfg,
		dialer: dialer,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the injected provider when it answers a handshake, otherwise
// the fallback provider once it is confirmed reachable.
func (r *ProviderResolver) Resolve(ctx context.Context) (Provider, error) {
	ctx, span := r.tracer.Start(ctx, "wallet.resolve_provider")
	defer span.End()

	if p := r.resolveInjected(ctx); p != nil {
		span.SetAttributes(attribute.String("transport", string(p.Transport())))
		span.SetStatus(codes.Ok, "injected")
		return p, nil
	}

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	p, err := r.resolveFallback(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no provider")
		return nil, err
	}

	span.SetAttributes(attribute.String("transport", string(p.Transport())))
	span.SetStatus(codes.Ok, "fallback")
	return p, nil
}

func (r *ProviderResolver) resolveInjected(ctx context.Context) Provider {
	p := r.injected
	dialed := false

	if p == nil {
		if r.config.InjectedURL == "" {
			return nil
		}
		var err error
		p, err = r.dialer.Dial(ctx, r.config.InjectedURL, domain.TransportInjected)
		if err != nil {
			r.logger.Warn(ctx, "injected provider dial failed, using fallback",
				"endpoint", r.config.InjectedURL, "error", err)
			return nil
		}
		dialed = true
	}

	id, err := p.NetworkID(ctx)
	if err != nil {
		r.logger.Warn(ctx, "injected provider did not answer handshake, using fallback",
			"endpoint", p.Endpoint(), "error", err)
		if dialed {
			p.Close()
		}
		return nil
	}

	r.logger.Info(ctx, "using injected provider", "endpoint", p.Endpoint(), "network", id)
	return p
}

func (r *ProviderResolver) resolveFallback(ctx context.Context) (Provider, error) {
	if r.config.FallbackURL == "" {
		return nil, apperror.New(apperror.CodeNoProviderFound,
			apperror.WithContext("no injected provider and no fallback configured"))
	}

	p, err := r.dialer.Dial(ctx, r.config.FallbackURL, domain.TransportFallback)
	if err != nil {
		return nil, apperror.New(apperror.CodeNoProviderFound,
			apperror.WithCause(err),
			apperror.WithContext(r.config.FallbackURL))
	}

	var id domain.NetworkID
	err = retry.Do(
		func() error {
			var herr error
			id, herr = p.NetworkID(ctx)
			return herr
		},
		retry.Context(ctx),
		retry.Attempts(r.config.HandshakeAttempts),
		retry.Delay(r.config.HandshakeDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Debug(ctx, "fallback handshake failed", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		p.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperror.New(apperror.CodeNoProviderFound,
			apperror.WithCause(err),
			apperror.WithContext(r.config.FallbackURL))
	}

	r.logger.Info(ctx, "using fallback provider", "endpoint", p.Endpoint(), "network", id)
	return p, nil
}
