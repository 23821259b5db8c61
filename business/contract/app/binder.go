package app

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/casino-dapp/business/contract/domain"
	"github.com/fd1az/casino-dapp/internal/apperror"
	"github.com/fd1az/casino-dapp/internal/logger"
)

const tracerName = "github.com/fd1az/casino-dapp/business/contract/app"

// ContractBinder resolves artifacts to callable handles on the caller's network.
type ContractBinder struct {
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewContractBinder creates a ContractBinder.
func NewContractBinder(log logger.LoggerInterface) *ContractBinder {
	return &ContractBinder{
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
}

// Bind reads the caller's network and returns a handle to the artifact's
// deployment there. It never returns a partially bound handle.
func (b *ContractBinder) Bind(ctx context.Context, caller Caller, artifact *domain.ContractArtifact) (*ContractHandle, error) {
	ctx, span := b.tracer.Start(ctx, "contract.bind",
		trace.WithAttributes(attribute.String("contract", artifact.Name)),
	)
	defer span.End()

	network, err := caller.NetworkID(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "net_version failed")
		return nil, apperror.New(apperror.CodeContractNotDeployedOnNetwork,
			apperror.WithCause(err),
			apperror.WithContext(artifact.Name+": network unknown"))
	}

	deployment, ok := artifact.DeploymentOn(network)
	if !ok {
		err := apperror.New(apperror.CodeContractNotDeployedOnNetwork,
			apperror.WithContext(artifact.Name+" on network "+network.String()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "not deployed")
		b.logger.Warn(ctx, "contract not deployed on network",
			"contract", artifact.Name, "network", network, "known", artifact.NetworkIDs())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("network", network.String()),
		attribute.String("address", deployment.Address.Hex()),
	)
	span.SetStatus(codes.Ok, "bound")
	b.logger.Debug(ctx, "contract bound",
		"contract", artifact.Name, "network", network, "address", deployment.Address.Hex())

	return &ContractHandle{
		caller:   caller,
		artifact: artifact,
		network:  network,
		address:  deployment.Address,
		tracer:   b.tracer,
	}, nil
}
