package app

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/casino-dapp/business/contract/domain"
	wallet "github.com/fd1az/casino-dapp/business/wallet/domain"
	"github.com/fd1az/casino-dapp/internal/apperror"
)

// CallOpts carries the caller side of a call.
type CallOpts struct {
	From common.Address
}

// ContractHandle is an artifact bound to one network address. Its method set is
// the artifact's declared interface.
type ContractHandle struct {
	caller   Caller
	artifact *domain.ContractArtifact
	network  wallet.NetworkID
	address  common.Address
	tracer   trace.Tracer
}

// Address returns the call target.
func (h *ContractHandle) Address() common.Address {
	return h.address
}

// Network returns the network the handle was bound on.
func (h *ContractHandle) Network() wallet.NetworkID {
	return h.network
}

// Name returns the contract name.
func (h *ContractHandle) Name() string {
	return h.artifact.Name
}

// Methods lists the callable interface.
func (h *ContractHandle) Methods() []domain.Method {
	return h.artifact.Methods()
}

// Call issues a read-only call of method and returns the unpacked outputs.
func (h *ContractHandle) Call(ctx context.Context, method string, opts CallOpts, args ...any) ([]any, error) {
	ctx, span := h.tracer.Start(ctx, "contract.call",
		trace.WithAttributes(
			attribute.String("contract", h.artifact.Name),
			attribute.String("method", method),
			attribute.String("from", opts.From.Hex()),
		),
	)
	defer span.End()

	if !h.artifact.HasMethod(method) {
		err := apperror.New(apperror.CodeMethodNotFound,
			apperror.WithContext(h.artifact.Name+"."+method))
		span.RecordError(err)
		span.SetStatus(codes.Error, "unknown method")
		return nil, err
	}

	data, err := h.artifact.ABI.Pack(method, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pack failed")
		return nil, apperror.New(apperror.CodeInvalidInput,
			apperror.WithCause(err),
			apperror.WithContext(h.artifact.Name+"."+method))
	}

	out, err := h.caller.Call(ctx, wallet.CallMsg{
		From: opts.From,
		To:   h.address,
		Data: data,
	})
	if err != nil {
		reason := RevertReason(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		return nil, apperror.New(apperror.CodeCallRejected,
			apperror.WithMessage("Call rejected: "+reason),
			apperror.WithCause(err),
			apperror.WithContext(h.artifact.Name+"."+method))
	}

	results, err := h.artifact.ABI.Unpack(method, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unpack failed")
		return nil, apperror.New(apperror.CodeCallRejected,
			apperror.WithMessage("Call rejected: undecodable result"),
			apperror.WithCause(err),
			apperror.WithContext(h.artifact.Name+"."+method))
	}

	span.SetStatus(codes.Ok, "called")
	return results, nil
}

// RevertReason extracts a human readable reason from a failed call. Solidity
// Error(string) payloads are decoded; otherwise the innermost message is used.
func RevertReason(err error) string {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if raw, ok := dataErr.ErrorData().(string); ok {
			if data, derr := hexutil.Decode(raw); derr == nil {
				if reason, uerr := abi.UnpackRevert(data); uerr == nil {
					return reason
				}
			}
		}
		return dataErr.Error()
	}

	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
