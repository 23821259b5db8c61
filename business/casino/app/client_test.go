package app

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/casino-dapp/business/casino/domain"
	contractApp "github.com/fd1az/casino-dapp/business/contract/app"
	contractDomain "github.com/fd1az/casino-dapp/business/contract/domain"
	walletApp "github.com/fd1az/casino-dapp/business/wallet/app"
	walletDomain "github.com/fd1az/casino-dapp/business/wallet/domain"
	"github.com/fd1az/casino-dapp/internal/apperror"
	"github.com/fd1az/casino-dapp/internal/logger"
)

const casinoABI = `[{"type":"function","name":"joinGame","inputs":[],"outputs":[],"stateMutability":"nonpayable"}]`

var (
	player   = common.HexToAddress("0x1")
	casinoAt = common.HexToAddress("0xABC")
)

type rpcDataError struct {
	msg  string
	data any
}

func (e *rpcDataError) Error() string  { return e.msg }
func (e *rpcDataError) ErrorCode() int { return 3 }
func (e *rpcDataError) ErrorData() any { return e.data }

type fakeProvider struct {
	network  walletDomain.NetworkID
	accounts []common.Address
	callErr  error

	// when set, Call signals callStarted and waits for release
	callStarted chan struct{}
	release     chan struct{}

	mu     sync.Mutex
	closed bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{network: "5777", accounts: []common.Address{player}}
}

func (f *fakeProvider) Transport() walletDomain.Transport { return walletDomain.TransportFallback }
func (f *fakeProvider) Endpoint() string                  { return "fake" }

func (f *fakeProvider) NetworkID(ctx context.Context) (walletDomain.NetworkID, error) {
	return f.network, nil
}

func (f *fakeProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	return f.accounts, nil
}

func (f *fakeProvider) Call(ctx context.Context, msg walletDomain.CallMsg) ([]byte, error) {
	if f.callStarted != nil {
		close(f.callStarted)
		<-f.release
	}
	return nil, f.callErr
}

func (f *fakeProvider) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	return big.NewInt(1_000_000_000_000_000_000), nil
}

func (f *fakeProvider) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeProvider) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeResolver struct {
	results []resolveResult
	calls   int
}

type resolveResult struct {
	p   walletApp.Provider
	err error
}

func (r *fakeResolver) Resolve(ctx context.Context) (walletApp.Provider, error) {
	res := r.results[r.calls]
	if r.calls < len(r.results)-1 {
		r.calls++
	}
	return res.p, res.err
}

type fakeStore struct {
	artifact *contractDomain.ContractArtifact
	err      error
	loads    int
}

func (s *fakeStore) Load(name string) (*contractDomain.ContractArtifact, error) {
	s.loads++
	return s.artifact, s.err
}

func casinoArtifact(t *testing.T) *contractDomain.ContractArtifact {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(casinoABI))
	require.NoError(t, err)
	return &contractDomain.ContractArtifact{
		Name: "Casino",
		ABI:  parsed,
		Networks: map[walletDomain.NetworkID]contractDomain.Deployment{
			"5777": {Address: casinoAt},
		},
	}
}

type harness struct {
	client   *GameClient
	resolver *fakeResolver
	store    *fakeStore

	mu     sync.Mutex
	phases []domain.Phase
}

func newHarness(t *testing.T, cfg GameClientConfig, results ...resolveResult) *harness {
	t.Helper()

	h := &harness{
		resolver: &fakeResolver{results: results},
		store:    &fakeStore{artifact: casinoArtifact(t)},
	}

	log := logger.NewNop()
	client, err := NewGameClient(cfg, h.resolver, h.store,
		contractApp.NewContractBinder(log), walletApp.NewAccountContext(log), log)
	require.NoError(t, err)
	h.client = client

	client.Subscribe(func(s ConnectionState) {
		h.mu.Lock()
		h.phases = append(h.phases, s.Phase)
		h.mu.Unlock()
	})
	t.Cleanup(client.Close)

	return h
}

func (h *harness) seen() []domain.Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.Phase(nil), h.phases...)
}

func TestGameClient_ReachesReadyOnce(t *testing.T) {
	p := newFakeProvider()
	h := newHarness(t, DefaultGameClientConfig(), resolveResult{p: p})

	require.NoError(t, h.client.Start(context.Background()))

	state := h.client.State()
	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.Equal(t, uint64(1), state.Session)
	assert.Equal(t, player, state.Account)
	require.NotNil(t, state.Handle)
	assert.Equal(t, casinoAt, state.Handle.Address())
	assert.Nil(t, state.Failure)
	assert.Equal(t, []domain.Phase{domain.PhaseConnecting, domain.PhaseReady}, h.seen())

	err := h.client.Start(context.Background())
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
	assert.Equal(t, []domain.Phase{domain.PhaseConnecting, domain.PhaseReady}, h.seen())
	assert.False(t, p.isClosed())

	bal, err := h.client.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1 ETH", bal.String())
}

func TestGameClient_ProviderFailureStopsEarly(t *testing.T) {
	h := newHarness(t, DefaultGameClientConfig(), resolveResult{
		err: apperror.New(apperror.CodeNoProviderFound),
	})

	err := h.client.Start(context.Background())

	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, domain.FailureNoProviderFound, failure.Kind)
	assert.Zero(t, h.store.loads, "artifact store must not be consulted")
	assert.Equal(t, domain.PhaseFailed, h.client.State().Phase)
	assert.Equal(t, []domain.Phase{domain.PhaseConnecting, domain.PhaseFailed}, h.seen())

	_, err = h.client.Balance(context.Background())
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
}

func TestGameClient_StepFailures(t *testing.T) {
	tests := []struct {
		name   string
		cfg    GameClientConfig
		setup  func(p *fakeProvider, s *fakeStore)
		kind   domain.FailureKind
		reason string
	}{
		{
			name:  "artifact missing",
			cfg:   DefaultGameClientConfig(),
			setup: func(p *fakeProvider, s *fakeStore) { s.err = apperror.New(apperror.CodeArtifactNotFound) },
			kind:  domain.FailureArtifactNotFound,
		},
		{
			name:  "wrong network",
			cfg:   DefaultGameClientConfig(),
			setup: func(p *fakeProvider, s *fakeStore) { p.network = "1" },
			kind:  domain.FailureContractNotDeployedOnNetwork,
		},
		{
			name:  "locked wallet",
			cfg:   DefaultGameClientConfig(),
			setup: func(p *fakeProvider, s *fakeStore) { p.accounts = nil },
			kind:  domain.FailureNoAccountsAvailable,
		},
		{
			name:   "unknown join method",
			cfg:    GameClientConfig{ContractName: "Casino", JoinMethod: "leaveGame"},
			setup:  func(p *fakeProvider, s *fakeStore) {},
			kind:   domain.FailureMethodNotFound,
			reason: "leaveGame",
		},
		{
			name: "call reverted",
			cfg:  DefaultGameClientConfig(),
			setup: func(p *fakeProvider, s *fakeStore) {
				p.callErr = &rpcDataError{msg: "execution reverted: table full", data: "0x"}
			},
			kind:   domain.FailureCallRejected,
			reason: "execution reverted: table full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakeProvider()
			h := newHarness(t, tt.cfg, resolveResult{p: p})
			tt.setup(p, h.store)

			err := h.client.Start(context.Background())

			var failure *domain.Failure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, tt.kind, failure.Kind)
			assert.Equal(t, tt.reason, failure.Reason)

			state := h.client.State()
			assert.Equal(t, domain.PhaseFailed, state.Phase)
			assert.Same(t, failure, state.Failure)
			assert.Nil(t, state.Handle)
			assert.True(t, p.isClosed(), "failed sessions release their provider")
		})
	}
}

func TestGameClient_RetryFromFailed(t *testing.T) {
	p := newFakeProvider()
	h := newHarness(t, DefaultGameClientConfig(),
		resolveResult{err: apperror.New(apperror.CodeNoProviderFound)},
		resolveResult{p: p},
	)

	require.Error(t, h.client.Start(context.Background()))
	require.NoError(t, h.client.Start(context.Background()))

	state := h.client.State()
	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.Equal(t, uint64(2), state.Session)
	assert.Equal(t, []domain.Phase{
		domain.PhaseConnecting, domain.PhaseFailed,
		domain.PhaseConnecting, domain.PhaseReady,
	}, h.seen())
}

func blockingProvider() *fakeProvider {
	p := newFakeProvider()
	p.callStarted = make(chan struct{})
	p.release = make(chan struct{})
	return p
}

func TestGameClient_CancelDiscardsLateResult(t *testing.T) {
	p := blockingProvider()
	h := newHarness(t, DefaultGameClientConfig(), resolveResult{p: p})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.client.Start(ctx) }()

	<-p.callStarted
	cancel()
	close(p.release)

	select {
	case err := <-done:
		assert.True(t, apperror.HasCode(err, apperror.CodeSessionAbandoned))
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return")
	}

	assert.Equal(t, domain.PhaseConnecting, h.client.State().Phase)
	assert.Equal(t, []domain.Phase{domain.PhaseConnecting}, h.seen())
	assert.True(t, p.isClosed())

	// An abandoned session may be restarted.
	h.resolver.results = []resolveResult{{p: newFakeProvider()}}
	h.resolver.calls = 0
	require.NoError(t, h.client.Start(context.Background()))
	assert.Equal(t, domain.PhaseReady, h.client.State().Phase)
}

func TestGameClient_CloseStopsTransitions(t *testing.T) {
	p := blockingProvider()
	h := newHarness(t, DefaultGameClientConfig(), resolveResult{p: p})

	done := make(chan error, 1)
	go func() { done <- h.client.Start(context.Background()) }()

	<-p.callStarted
	h.client.Close()
	close(p.release)

	select {
	case err := <-done:
		assert.True(t, apperror.HasCode(err, apperror.CodeSessionAbandoned))
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return")
	}

	assert.Equal(t, []domain.Phase{domain.PhaseConnecting}, h.seen())
	assert.True(t, p.isClosed())

	err := h.client.Start(context.Background())
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
}

func TestGameClient_StartRejectedWhileInFlight(t *testing.T) {
	p := blockingProvider()
	h := newHarness(t, DefaultGameClientConfig(), resolveResult{p: p})

	done := make(chan error, 1)
	go func() { done <- h.client.Start(context.Background()) }()
	<-p.callStarted

	err := h.client.Start(context.Background())
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))

	close(p.release)
	require.NoError(t, <-done)
	assert.Equal(t, domain.PhaseReady, h.client.State().Phase)
}

func TestGameClient_Unsubscribe(t *testing.T) {
	h := newHarness(t, DefaultGameClientConfig(), resolveResult{p: newFakeProvider()})

	var count int
	unsubscribe := h.client.Subscribe(func(ConnectionState) { count++ })
	unsubscribe()
	unsubscribe()

	require.NoError(t, h.client.Start(context.Background()))
	assert.Zero(t, count)
	assert.Len(t, h.seen(), 2)
}

func TestGameClient_StateIsACopy(t *testing.T) {
	h := newHarness(t, DefaultGameClientConfig(), resolveResult{p: newFakeProvider()})

	s := h.client.State()
	s.Phase = domain.PhaseReady
	assert.Equal(t, domain.PhaseUninitialized, h.client.State().Phase)
}

// lockedWallet is a host-owned wallet that exposes no accounts until unlocked.
type lockedWallet struct {
	*fakeProvider
	unlocked bool
}

func (w *lockedWallet) Transport() walletDomain.Transport { return walletDomain.TransportInjected }

func (w *lockedWallet) Accounts(ctx context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.unlocked {
		return nil, nil
	}
	return w.fakeProvider.accounts, nil
}

func (w *lockedWallet) unlock() {
	w.mu.Lock()
	w.unlocked = true
	w.mu.Unlock()
}

func TestGameClient_RetryKeepsInjectedWallet(t *testing.T) {
	wallet := &lockedWallet{fakeProvider: newFakeProvider()}
	log := logger.NewNop()
	resolver := walletApp.NewProviderResolver(walletApp.ResolverConfig{}, nil, log,
		walletApp.WithInjected(wallet))

	client, err := NewGameClient(DefaultGameClientConfig(), resolver, &fakeStore{artifact: casinoArtifact(t)},
		contractApp.NewContractBinder(log), walletApp.NewAccountContext(log), log)
	require.NoError(t, err)

	err = client.Start(context.Background())
	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, domain.FailureNoAccountsAvailable, failure.Kind)
	assert.False(t, wallet.isClosed(), "failed session must not close the host wallet")

	wallet.unlock()
	require.NoError(t, client.Start(context.Background()))

	state := client.State()
	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.Equal(t, walletDomain.TransportInjected, state.Transport)
	assert.Equal(t, player, state.Account)

	client.Close()
	assert.False(t, wallet.isClosed())
}
