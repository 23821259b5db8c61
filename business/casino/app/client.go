package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/casino-dapp/business/casino/domain"
	contractApp "github.com/fd1az/casino-dapp/business/contract/app"
	walletApp "github.com/fd1az/casino-dapp/business/wallet/app"
	"github.com/fd1az/casino-dapp/internal/apperror"
	"github.com/fd1az/casino-dapp/internal/asset"
	"github.com/fd1az/casino-dapp/internal/logger"
)

const (
	tracerName = "github.com/fd1az/casino-dapp/business/casino/app"
	meterName  = "github.com/fd1az/casino-dapp/business/casino/app"
)

// GameClientConfig names the contract and method a session joins through.
type GameClientConfig struct {
	ContractName string
	JoinMethod   string
}

// DefaultGameClientConfig returns the Casino/joinGame defaults.
func DefaultGameClientConfig() GameClientConfig {
	return GameClientConfig{
		ContractName: "Casino",
		JoinMethod:   "joinGame",
	}
}

// gameClientMetrics holds OTEL metric instruments.
type gameClientMetrics struct {
	transitions     metric.Int64Counter
	discarded       metric.Int64Counter
	connectDuration metric.Float64Histogram
}

// GameClient sequences provider discovery, binding, account resolution and
// the join call, and publishes the resulting state.
type GameClient struct {
	config   GameClientConfig
	resolver ProviderResolver
	store    contractApp.ArtifactStore
	binder   Binder
	accounts AccountResolver
	logger   logger.LoggerInterface

	mu        sync.Mutex
	state     ConnectionState
	session   uint64
	inFlight  bool
	closed    bool
	cancel    context.CancelFunc
	provider  walletApp.Provider // owned while Ready
	observers []observerEntry
	nextObsID uint64

	tracer  trace.Tracer
	metrics *gameClientMetrics
}

type observerEntry struct {
	id uint64
	fn Observer
}

// NewGameClient creates a GameClient in the Uninitialized phase.
func NewGameClient(
	cfg GameClientConfig,
	resolver ProviderResolver,
	store contractApp.ArtifactStore,
	binder Binder,
	accounts AccountResolver,
	log logger.LoggerInterface,
) (*GameClient, error) {
	c := &GameClient{
		config:   cfg,
		resolver: resolver,
		store:    store,
		binder:   binder,
		accounts: accounts,
		logger:   log,
		state:    ConnectionState{Phase: domain.PhaseUninitialized, At: time.Now()},
		tracer:   otel.Tracer(tracerName),
	}

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return c, nil
}

// initMetrics initializes OTEL metric instruments.
func (c *GameClient) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &gameClientMetrics{}

	c.metrics.transitions, err = meter.Int64Counter(
		"casino_state_transitions_total",
		metric.WithDescription("Connection state transitions applied"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	c.metrics.discarded, err = meter.Int64Counter(
		"casino_late_results_discarded_total",
		metric.WithDescription("Step results dropped because their session was abandoned"),
		metric.WithUnit("{result}"),
	)
	if err != nil {
		return err
	}

	c.metrics.connectDuration, err = meter.Float64Histogram(
		"casino_connect_duration_seconds",
		metric.WithDescription("Time from Connecting to a terminal phase"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// State returns a copy of the current state.
func (c *GameClient) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers o for every future state. The returned func removes it.
func (c *GameClient) Subscribe(o Observer) (unsubscribe func()) {
	c.mu.Lock()
	c.nextObsID++
	id := c.nextObsID
	c.observers = append(c.observers, observerEntry{id: id, fn: o})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, e := range c.observers {
				if e.id == id {
					c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Start runs one connection session on the caller's goroutine. It returns nil
// once Ready, the *domain.Failure when the session failed, and a
// SESSION_ABANDONED error when ctx was cancelled or the client closed first.
func (c *GameClient) Start(ctx context.Context) error {
	sctx, sid, err := c.begin(ctx)
	if err != nil {
		return err
	}
	defer c.end(sid)

	sctx, span := c.tracer.Start(sctx, "casino.session",
		trace.WithAttributes(attribute.Int64("session", int64(sid))),
	)
	defer span.End()

	started := time.Now()
	c.logger.Info(sctx, "connecting", "session", sid)

	if !c.apply(sctx, sid, ConnectionState{Phase: domain.PhaseConnecting}, nil) {
		return c.abandoned(sctx, span)
	}

	// 1. provider
	provider, err := c.resolver.Resolve(sctx)
	if !c.live(sctx, sid) {
		closeProvider(provider)
		return c.abandoned(sctx, span)
	}
	if err != nil {
		return c.fail(sctx, span, sid, started, nil, domain.FailureNoProviderFound, "", err)
	}
	span.SetAttributes(attribute.String("transport", string(provider.Transport())))

	// 2. artifact
	artifact, err := c.store.Load(c.config.ContractName)
	if !c.live(sctx, sid) {
		closeProvider(provider)
		return c.abandoned(sctx, span)
	}
	if err != nil {
		return c.fail(sctx, span, sid, started, provider, domain.FailureArtifactNotFound, "", err)
	}

	// 3. bind
	handle, err := c.binder.Bind(sctx, provider, artifact)
	if !c.live(sctx, sid) {
		closeProvider(provider)
		return c.abandoned(sctx, span)
	}
	if err != nil {
		return c.fail(sctx, span, sid, started, provider, domain.FailureContractNotDeployedOnNetwork, "", err)
	}

	// 4. accounts
	accounts, err := c.accounts.ResolveAccounts(sctx, provider)
	if !c.live(sctx, sid) {
		closeProvider(provider)
		return c.abandoned(sctx, span)
	}
	if err != nil {
		return c.fail(sctx, span, sid, started, provider, domain.FailureNoAccountsAvailable, "", err)
	}
	active := accounts.Active()

	// 5. join
	result, err := handle.Call(sctx, c.config.JoinMethod, contractApp.CallOpts{From: active})
	if !c.live(sctx, sid) {
		closeProvider(provider)
		return c.abandoned(sctx, span)
	}
	if err != nil {
		if apperror.HasCode(err, apperror.CodeMethodNotFound) {
			return c.fail(sctx, span, sid, started, provider, domain.FailureMethodNotFound, c.config.JoinMethod, err)
		}
		return c.fail(sctx, span, sid, started, provider, domain.FailureCallRejected, contractApp.RevertReason(err), err)
	}
	c.logger.Debug(sctx, "join call returned", "method", c.config.JoinMethod, "result", fmt.Sprint(result))

	ready := ConnectionState{
		Phase:     domain.PhaseReady,
		Transport: provider.Transport(),
		Handle:    handle,
		Account:   active,
	}
	if !c.apply(sctx, sid, ready, provider) {
		closeProvider(provider)
		return c.abandoned(sctx, span)
	}

	c.metrics.connectDuration.Record(sctx, time.Since(started).Seconds(),
		metric.WithAttributes(attribute.String("phase", domain.PhaseReady.String())))
	span.SetAttributes(
		attribute.String("account", active.Hex()),
		attribute.String("contract", handle.Address().Hex()),
		attribute.String("network", handle.Network().String()),
	)
	span.SetStatus(codes.Ok, "ready")
	c.logger.Info(sctx, "ready",
		"session", sid,
		"account", active.Hex(),
		"contract", handle.Address().Hex(),
		"network", handle.Network())

	return nil
}

// Balance returns the active account's balance while Ready.
func (c *GameClient) Balance(ctx context.Context) (asset.Amount, error) {
	c.mu.Lock()
	p, state := c.provider, c.state
	c.mu.Unlock()

	if p == nil || !state.IsReady() {
		return asset.Amount{}, apperror.New(apperror.CodeInvalidState,
			apperror.WithContext("balance requires a ready session"))
	}
	return c.accounts.Balance(ctx, p, state.Account)
}

// Close abandons any in-flight session and releases the provider. No
// transition is applied afterwards.
func (c *GameClient) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	cancel, p := c.cancel, c.provider
	c.provider = nil
	c.observers = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	closeProvider(p)
}

// HealthCheck reports readiness for the health server.
func (c *GameClient) HealthCheck(ctx context.Context) (bool, string) {
	s := c.State()
	if s.Failure != nil {
		return false, s.Failure.Error()
	}
	return s.IsReady(), s.Phase.String()
}

func (c *GameClient) begin(ctx context.Context) (context.Context, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return nil, 0, apperror.New(apperror.CodeInvalidState, apperror.WithContext("client closed"))
	case c.inFlight:
		return nil, 0, apperror.New(apperror.CodeInvalidState, apperror.WithContext("session in flight"))
	case !c.state.Phase.CanTransition(domain.PhaseConnecting):
		return nil, 0, apperror.New(apperror.CodeInvalidState,
			apperror.WithContext("cannot start from "+c.state.Phase.String()))
	}

	c.session++
	c.inFlight = true
	sctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	return sctx, c.session, nil
}

func (c *GameClient) end(sid uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == sid {
		c.inFlight = false
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
	}
}

// live reports whether results of session sid may still be applied.
func (c *GameClient) live(ctx context.Context, sid uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveLocked(ctx, sid)
}

func (c *GameClient) liveLocked(ctx context.Context, sid uint64) bool {
	return !c.closed && c.session == sid && ctx.Err() == nil
}

// apply publishes next if session sid is still live. A Ready state takes
// ownership of p.
func (c *GameClient) apply(ctx context.Context, sid uint64, next ConnectionState, p walletApp.Provider) bool {
	c.mu.Lock()
	from := c.state.Phase
	if !c.liveLocked(ctx, sid) || !from.CanTransition(next.Phase) {
		c.mu.Unlock()
		c.metrics.discarded.Add(ctx, 1,
			metric.WithAttributes(attribute.String("phase", next.Phase.String())))
		c.logger.Debug(ctx, "discarding late result", "session", sid, "phase", next.Phase)
		return false
	}

	next.Session = sid
	next.At = time.Now()
	c.state = next
	if next.Phase == domain.PhaseReady {
		c.provider = p
	}
	observers := make([]Observer, len(c.observers))
	for i, e := range c.observers {
		observers[i] = e.fn
	}
	c.mu.Unlock()

	c.metrics.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from.String()),
		attribute.String("to", next.Phase.String()),
	))

	for _, o := range observers {
		o(next)
	}
	return true
}

func (c *GameClient) fail(
	ctx context.Context,
	span trace.Span,
	sid uint64,
	started time.Time,
	p walletApp.Provider,
	kind domain.FailureKind,
	reason string,
	err error,
) error {
	closeProvider(p)

	failure := &domain.Failure{Kind: kind, Reason: reason, Err: err}
	if !c.apply(ctx, sid, ConnectionState{Phase: domain.PhaseFailed, Failure: failure}, nil) {
		return c.abandoned(ctx, span)
	}

	c.metrics.connectDuration.Record(ctx, time.Since(started).Seconds(),
		metric.WithAttributes(attribute.String("phase", domain.PhaseFailed.String())))
	span.RecordError(err)
	span.SetStatus(codes.Error, failure.Error())
	c.logger.Warn(ctx, "connection failed", "session", sid, "failure", failure.Error(), "error", err)

	return failure
}

func (c *GameClient) abandoned(ctx context.Context, span trace.Span) error {
	err := apperror.New(apperror.CodeSessionAbandoned, apperror.WithCause(context.Cause(ctx)))
	span.SetStatus(codes.Error, "abandoned")
	return err
}

func closeProvider(p walletApp.Provider) {
	if p != nil {
		p.Close()
	}
}
