package ethereum

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/fd1az/casino-dapp/business/wallet/app"
	"github.com/fd1az/casino-dapp/business/wallet/domain"
	"github.com/fd1az/casino-dapp/internal/apperror"
	"github.com/fd1az/casino-dapp/internal/httpclient"
	"github.com/fd1az/casino-dapp/internal/logger"
)

// Dialer opens go-ethereum providers. HTTP endpoints use the instrumented
// client; ws and ipc endpoints use go-ethereum's own transports.
type Dialer struct {
	config ProviderConfig
	logger logger.LoggerInterface
}

// NewDialer creates a Dialer.
func NewDialer(cfg ProviderConfig, log logger.LoggerInterface) *Dialer {
	return &Dialer{config: cfg, logger: log}
}

// Dial connects to endpoint. It does not perform a handshake.
func (d *Dialer) Dial(ctx context.Context, endpoint string, transport domain.Transport) (app.Provider, error) {
	var opts []rpc.ClientOption

	if isHTTP(endpoint) {
		hc, err := httpclient.New(
			httpclient.WithProviderName(string(transport)),
			httpclient.WithRequestTimeout(d.config.Timeout),
		)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "http client")
		}
		opts = append(opts, rpc.WithHTTPClient(hc))
	}

	c, err := rpc.DialOptions(ctx, endpoint, opts...)
	if err != nil {
		return nil, apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext(endpoint))
	}

	p, err := NewProvider(c, transport, endpoint, d.config, d.logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	d.logger.Debug(ctx, "provider dialed", "endpoint", endpoint, "transport", transport)
	return p, nil
}

func isHTTP(endpoint string) bool {
	return strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://")
}
