// Package ethereum implements wallet providers on top of go-ethereum's JSON-RPC client.
package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/casino-dapp/business/wallet/domain"
	"github.com/fd1az/casino-dapp/internal/apperror"
	"github.com/fd1az/casino-dapp/internal/circuitbreaker"
	"github.com/fd1az/casino-dapp/internal/logger"
	"github.com/fd1az/casino-dapp/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/casino-dapp/business/wallet/infra/ethereum"
	meterName  = "github.com/fd1az/casino-dapp/business/wallet/infra/ethereum"
)

// executionRevertedCode is the JSON-RPC error code nodes use for reverted calls.
const executionRevertedCode = 3

// ProviderConfig holds per-provider transport limits.
type ProviderConfig struct {
	Timeout           time.Duration // per-call deadline
	RequestsPerSecond float64       // <= 0 disables limiting
	Burst             int
}

// DefaultProviderConfig returns sensible defaults for a local node.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Timeout:           10 * time.Second,
		RequestsPerSecond: 20,
		Burst:             5,
	}
}

// providerMetrics holds OTEL metric instruments.
type providerMetrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// Provider is a JSON-RPC provider backed by go-ethereum.
type Provider struct {
	transport domain.Transport
	endpoint  string
	config    ProviderConfig
	logger    logger.LoggerInterface

	rpc    *rpc.Client
	client *ethclient.Client

	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[any]

	tracer  trace.Tracer
	metrics *providerMetrics
}

// NewProvider wraps an established RPC client. The provider owns c and closes it on Close.
func NewProvider(c *rpc.Client, transport domain.Transport, endpoint string, cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	p := &Provider{
		transport: transport,
		endpoint:  endpoint,
		config:    cfg,
		logger:    log,
		rpc:       c,
		client:    ethclient.NewClient(c),
		limiter:   ratelimit.New(cfg.RequestsPerSecond, cfg.Burst),
		tracer:    otel.Tracer(tracerName),
	}

	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	p.initCircuitBreaker()

	return p, nil
}

// initMetrics initializes OTEL metric instruments.
func (p *Provider) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &providerMetrics{}

	p.metrics.calls, err = meter.Int64Counter(
		"wallet_rpc_calls_total",
		metric.WithDescription("Total JSON-RPC calls issued through a provider"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	p.metrics.duration, err = meter.Float64Histogram(
		"wallet_rpc_call_duration_seconds",
		metric.WithDescription("JSON-RPC call latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// initCircuitBreaker initializes the circuit breaker.
func (p *Provider) initCircuitBreaker() {
	cfg := circuitbreaker.DefaultConfig("wallet-" + string(p.transport))
	cfg.IsSuccessful = func(err error) bool {
		// The node answered; a revert or a cancelled caller says nothing about its health.
		return err == nil || IsExecutionReverted(err) ||
			errors.Is(err, context.Canceled)
	}
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		p.logger.Warn(context.Background(), "provider circuit state changed",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	p.cb = circuitbreaker.New[any](cfg)
}

// Transport returns how the provider was discovered.
func (p *Provider) Transport() domain.Transport {
	return p.transport
}

// Endpoint returns the RPC endpoint.
func (p *Provider) Endpoint() string {
	return p.endpoint
}

// NetworkID queries net_version.
func (p *Provider) NetworkID(ctx context.Context) (domain.NetworkID, error) {
	res, err := p.do(ctx, "net_version", func(ctx context.Context) (any, error) {
		return p.client.NetworkID(ctx)
	})
	if err != nil {
		return "", err
	}
	return domain.NetworkIDFromBig(res.(*big.Int)), nil
}

// Accounts queries eth_accounts.
func (p *Provider) Accounts(ctx context.Context) ([]common.Address, error) {
	res, err := p.do(ctx, "eth_accounts", func(ctx context.Context) (any, error) {
		var accounts []common.Address
		err := p.rpc.CallContext(ctx, &accounts, "eth_accounts")
		return accounts, err
	})
	if err != nil {
		return nil, err
	}
	return res.([]common.Address), nil
}

// Call executes a read-only eth_call against the latest block.
func (p *Provider) Call(ctx context.Context, msg domain.CallMsg) ([]byte, error) {
	to := msg.To
	res, err := p.do(ctx, "eth_call", func(ctx context.Context) (any, error) {
		return p.client.CallContract(ctx, ethereum.CallMsg{
			From: msg.From,
			To:   &to,
			Data: msg.Data,
		}, nil)
	})
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}

// Balance queries eth_getBalance at the latest block.
func (p *Provider) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	res, err := p.do(ctx, "eth_getBalance", func(ctx context.Context) (any, error) {
		return p.client.BalanceAt(ctx, account, nil)
	})
	if err != nil {
		return nil, err
	}
	return res.(*big.Int), nil
}

// Close releases the underlying RPC connection.
func (p *Provider) Close() {
	p.rpc.Close()
}

// do runs one RPC method through the limiter and breaker.
func (p *Provider) do(ctx context.Context, method string, fn func(context.Context) (any, error)) (any, error) {
	ctx, span := p.tracer.Start(ctx, "wallet.rpc",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.method", method),
			attribute.String("transport", string(p.transport)),
		),
	)
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate limited")
		return nil, err
	}

	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := p.cb.Execute(func() (any, error) {
		return fn(ctx)
	})

	outcome := "ok"
	switch {
	case err == nil:
	case IsExecutionReverted(err):
		outcome = "reverted"
	default:
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("transport", string(p.transport)),
		attribute.String("outcome", outcome),
	)
	p.metrics.calls.Add(ctx, 1, attrs)
	p.metrics.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		if apperror.HasCode(err, apperror.CodeCircuitOpen) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeEthereumRPCError, method, err)
	}

	span.SetStatus(codes.Ok, outcome)
	return res, nil
}

// IsExecutionReverted reports whether err is a node-side execution revert.
func IsExecutionReverted(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == executionRevertedCode {
		return true
	}
	var dataErr rpc.DataError
	return errors.As(err, &dataErr) && dataErr.ErrorData() != nil
}
