package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/casino-dapp/business/wallet/domain"
	"github.com/fd1az/casino-dapp/internal/apperror"
	"github.com/fd1az/casino-dapp/internal/asset"
	"github.com/fd1az/casino-dapp/internal/logger"
)

// AccountContext resolves the accounts a provider controls.
type AccountContext struct {
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewAccountContext creates an AccountContext.
func NewAccountContext(log logger.LoggerInterface) *AccountContext {
	return &AccountContext{
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
}

// ResolveAccounts asks the provider for its accounts in one round trip.
// An empty list (e.g. a locked wallet) is an error.
func (a *AccountContext) ResolveAccounts(ctx context.Context, p Provider) (domain.AccountSet, error) {
	ctx, span := a.tracer.Start(ctx, "wallet.resolve_accounts")
	defer span.End()

	accounts, err := p.Accounts(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "eth_accounts failed")
		return domain.AccountSet{}, apperror.New(apperror.CodeNoAccountsAvailable,
			apperror.WithCause(err),
			apperror.WithContext(p.Endpoint()))
	}

	set := domain.NewAccountSet(accounts)
	if set.IsEmpty() {
		err := apperror.New(apperror.CodeNoAccountsAvailable,
			apperror.WithContext("wallet locked or no accounts exposed"))
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty")
		return domain.AccountSet{}, err
	}

	span.SetAttributes(
		attribute.Int("accounts", set.Len()),
		attribute.String("active", set.Active().Hex()),
	)
	span.SetStatus(codes.Ok, "resolved")
	a.logger.Debug(ctx, "accounts resolved", "count", set.Len(), "active", set.Active().Hex())

	return set, nil
}

// Balance returns the native balance of account.
func (a *AccountContext) Balance(ctx context.Context, p Provider, account common.Address) (asset.Amount, error) {
	ctx, span := a.tracer.Start(ctx, "wallet.balance",
		trace.WithAttributes(attribute.String("account", account.Hex())),
	)
	defer span.End()

	wei, err := p.Balance(ctx, account)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "eth_getBalance failed")
		return asset.Amount{}, apperror.Wrap(err, apperror.CodeEthereumRPCError, "balance of "+account.Hex())
	}

	span.SetStatus(codes.Ok, "fetched")
	return asset.NewAmount(asset.ETH, wei), nil
}
