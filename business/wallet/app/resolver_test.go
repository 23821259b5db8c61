package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/casino-dapp/business/wallet/domain"
	"github.com/fd1az/casino-dapp/internal/apperror"
)

const (
	injectedURL = "http://127.0.0.1:8550"
	fallbackURL = "http://127.0.0.1:9545"
)

func TestResolver_PrefersInjectedEndpoint(t *testing.T) {
	dialer := &fakeDialer{providers: map[string]*fakeProvider{
		injectedURL: {network: "1"},
		fallbackURL: {network: "5777"},
	}}
	r := NewProviderResolver(ResolverConfig{
		InjectedURL:       injectedURL,
		FallbackURL:       fallbackURL,
		HandshakeAttempts: 1,
	}, dialer, &mockLogger{})

	p, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.TransportInjected, p.Transport())
	assert.Equal(t, injectedURL, p.Endpoint())
	assert.Equal(t, []string{injectedURL}, dialer.dialed)
}

func TestResolver_PrefersProgrammaticInjection(t *testing.T) {
	injected := &fakeProvider{transport: domain.TransportInjected, endpoint: "in-process", network: "5777"}
	dialer := &fakeDialer{}
	r := NewProviderResolver(ResolverConfig{FallbackURL: fallbackURL}, dialer, &mockLogger{}, WithInjected(injected))

	p, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.TransportInjected, p.Transport())
	assert.Equal(t, "in-process", p.Endpoint())
	assert.Empty(t, dialer.dialed)
}

func TestResolver_InjectedProviderStaysOpen(t *testing.T) {
	injected := &fakeProvider{transport: domain.TransportInjected, endpoint: "in-process", network: "5777"}
	r := NewProviderResolver(ResolverConfig{}, &fakeDialer{}, &mockLogger{}, WithInjected(injected))

	p, err := r.Resolve(context.Background())
	require.NoError(t, err)
	p.Close()
	assert.False(t, injected.closed, "host-owned provider must not be closed")

	again, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.TransportInjected, again.Transport())
	assert.Equal(t, 2, injected.netCalls)
}

func TestResolver_FallsBackWhenInjectedSilent(t *testing.T) {
	injected := &fakeProvider{network: "1", netErrs: 100}
	fallback := &fakeProvider{network: "5777"}
	dialer := &fakeDialer{providers: map[string]*fakeProvider{
		injectedURL: injected,
		fallbackURL: fallback,
	}}
	r := NewProviderResolver(ResolverConfig{
		InjectedURL:       injectedURL,
		FallbackURL:       fallbackURL,
		HandshakeAttempts: 1,
	}, dialer, &mockLogger{})

	p, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.TransportFallback, p.Transport())
	assert.True(t, injected.closed, "dialed injected provider should be closed")
	assert.False(t, fallback.closed)
}

func TestResolver_FallbackHandshakeRetries(t *testing.T) {
	fallback := &fakeProvider{network: "5777", netErrs: 2}
	dialer := &fakeDialer{providers: map[string]*fakeProvider{fallbackURL: fallback}}
	r := NewProviderResolver(ResolverConfig{FallbackURL: fallbackURL, HandshakeAttempts: 3}, dialer, &mockLogger{})

	p, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.TransportFallback, p.Transport())
	assert.Equal(t, 3, fallback.netCalls)
}

func TestResolver_NoProviderFound(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ResolverConfig
		dialer *fakeDialer
	}{
		{
			name:   "nothing configured",
			cfg:    ResolverConfig{},
			dialer: &fakeDialer{},
		},
		{
			name:   "fallback dial fails",
			cfg:    ResolverConfig{FallbackURL: fallbackURL},
			dialer: &fakeDialer{dialErr: map[string]error{fallbackURL: errUnreachable}},
		},
		{
			name: "fallback never answers",
			cfg:  ResolverConfig{FallbackURL: fallbackURL, HandshakeAttempts: 2},
			dialer: &fakeDialer{providers: map[string]*fakeProvider{
				fallbackURL: {netErrs: 100},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewProviderResolver(tt.cfg, tt.dialer, &mockLogger{})

			p, err := r.Resolve(context.Background())
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, apperror.HasCode(err, apperror.CodeNoProviderFound))

			if fp, ok := tt.dialer.providers[fallbackURL]; ok {
				assert.True(t, fp.closed)
			}
		})
	}
}

func TestResolver_CancelledContext(t *testing.T) {
	dialer := &fakeDialer{providers: map[string]*fakeProvider{fallbackURL: {network: "5777"}}}
	r := NewProviderResolver(ResolverConfig{FallbackURL: fallbackURL}, dialer, &mockLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
