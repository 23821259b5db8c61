package app

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/casino-dapp/business/wallet/domain"
)

// mockLogger implements logger.LoggerInterface for testing.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

var errUnreachable = errors.New("connection refused")

type fakeProvider struct {
	mu        sync.Mutex
	transport domain.Transport
	endpoint  string
	network   domain.NetworkID
	netErrs   int // fail this many NetworkID calls before succeeding
	netCalls  int
	accounts  []common.Address
	accErr    error
	balance   *big.Int
	closed    bool
}

func (f *fakeProvider) Transport() domain.Transport { return f.transport }
func (f *fakeProvider) Endpoint() string            { return f.endpoint }

func (f *fakeProvider) NetworkID(ctx context.Context) (domain.NetworkID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.netCalls++
	if f.netCalls <= f.netErrs {
		return "", errUnreachable
	}
	return f.network, nil
}

func (f *fakeProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	return f.accounts, f.accErr
}

func (f *fakeProvider) Call(ctx context.Context, msg domain.CallMsg) ([]byte, error) {
	return nil, nil
}

func (f *fakeProvider) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeProvider) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

type fakeDialer struct {
	providers map[string]*fakeProvider
	dialErr   map[string]error
	dialed    []string
}

func (d *fakeDialer) Dial(ctx context.Context, endpoint string, transport domain.Transport) (Provider, error) {
	d.dialed = append(d.dialed, endpoint)
	if err := d.dialErr[endpoint]; err != nil {
		return nil, err
	}
	p, ok := d.providers[endpoint]
	if !ok {
		return nil, errUnreachable
	}
	p.transport = transport
	p.endpoint = endpoint
	return p, nil
}
