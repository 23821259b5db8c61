package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Options holds configuration for the instrumented HTTP client.
type Options struct {
	meterProvider  metric.MeterProvider
	providerName   string
	roundTripper   http.RoundTripper
	requestTimeout time.Duration
	headers        map[string]string
}

// Option configures Options.
type Option func(*Options)

// WithMeterProvider sets the OTEL meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *Options) {
		o.meterProvider = mp
	}
}

// WithProviderName labels metrics with the endpoint role (injected, fallback).
func WithProviderName(name string) Option {
	return func(o *Options) {
		o.providerName = name
	}
}

// WithRoundTripper sets the base transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *Options) {
		o.roundTripper = rt
	}
}

// WithRequestTimeout sets the per-request timeout.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.requestTimeout = timeout
	}
}

// WithHeaders sets headers added to every request.
func WithHeaders(headers map[string]string) Option {
	return func(o *Options) {
		o.headers = headers
	}
}
