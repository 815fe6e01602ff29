package sso

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultPollInterval is the fixed wait before every token attempt.
const DefaultPollInterval = time.Second

// State is a step of a single Resolve call.
type State int

const (
	StateRegistering State = iota
	StateAwaitingAuthorization
	StatePolling
	StateExchanging
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRegistering:
		return "registering"
	case StateAwaitingAuthorization:
		return "awaiting-authorization"
	case StatePolling:
		return "polling"
	case StateExchanging:
		return "exchanging"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options are supplied by the caller of Resolve.
type Options struct {
	// ClientName labels the OIDC client registration.
	ClientName string
	// Notifier receives the verification URL. Required.
	Notifier UserNotifier
}

// Flow runs the AWS SSO device authorization flow and exchanges the
// resulting token for role credentials.
type Flow struct {
	provider     Provider
	clock        Clock
	pollInterval time.Duration
	log          *zap.SugaredLogger
	observe      func(State)
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithClock replaces the clock used between token attempts.
func WithClock(c Clock) FlowOption {
	return func(f *Flow) { f.clock = c }
}

// WithPollInterval changes the delay before each token attempt.
func WithPollInterval(d time.Duration) FlowOption {
	return func(f *Flow) { f.pollInterval = d }
}

// WithLogger sets the logger for debug output
func WithLogger(l *zap.SugaredLogger) FlowOption {
	return func(f *Flow) { f.log = l }
}

// WithStateObserver registers a callback invoked on every state transition.
func WithStateObserver(fn func(State)) FlowOption {
	return func(f *Flow) { f.observe = fn }
}

// NewFlow returns a Flow polling every DefaultPollInterval on the real clock.
func NewFlow(provider Provider, opts ...FlowOption) *Flow {
	f := &Flow{
		provider:     provider,
		clock:        realClock{},
		pollInterval: DefaultPollInterval,
		log:          zap.NewNop().Sugar(),
		observe:      func(State) {},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// resolution carries the ephemeral objects of one Resolve call.
type resolution struct {
	profile  ProfileParams
	opts     Options
	client   *ClientRegistration
	auth     *DeviceAuthorization
	token    *oauth2.Token
	creds    *Credentials
	attempts int
	err      error
}

// Resolve blocks until the user approves the request, the provider rejects
// it, or ctx is cancelled. Polling is not bounded by the device code expiry:
// the provider reports an expired code as a regular error.
func (f *Flow) Resolve(ctx context.Context, profile ProfileParams, opts Options) (*Credentials, error) {
	if opts.Notifier == nil {
		return nil, errors.New("sso: a user notifier is required")
	}

	r := &resolution{profile: profile, opts: opts}
	state := StateRegistering
	for {
		f.observe(state)
		f.log.Debugw("device authorization state", "state", state.String())

		switch state {
		case StateRegistering:
			state = f.register(ctx, r)
		case StateAwaitingAuthorization:
			state = f.authorize(ctx, r)
		case StatePolling:
			state = f.poll(ctx, r)
		case StateExchanging:
			state = f.exchange(ctx, r)
		case StateDone:
			return r.creds, nil
		case StateFailed:
			f.log.Debugw("device authorization failed", "error", r.err)
			return nil, r.err
		}
	}
}

func (r *resolution) fail(err error) State {
	r.err = err
	return StateFailed
}

func (f *Flow) register(ctx context.Context, r *resolution) State {
	client, err := f.provider.RegisterClient(ctx, r.opts.ClientName)
	if err != nil {
		return r.fail(err)
	}
	r.client = client
	f.log.Debugw("registered OIDC client", "clientName", r.opts.ClientName)
	return StateAwaitingAuthorization
}

func (f *Flow) authorize(ctx context.Context, r *resolution) State {
	auth, err := f.provider.StartDeviceAuthorization(ctx, r.client, r.profile.StartURL)
	if err != nil {
		return r.fail(err)
	}
	if auth == nil || auth.VerificationURIComplete == "" {
		return r.fail(ErrNoVerificationURL)
	}
	r.auth = auth

	if err := r.opts.Notifier.Notify(ctx, auth.VerificationURIComplete); err != nil {
		return r.fail(err)
	}
	return StatePolling
}

func (f *Flow) poll(ctx context.Context, r *resolution) State {
	for {
		if err := f.clock.Sleep(ctx, f.pollInterval); err != nil {
			return r.fail(err)
		}

		r.attempts++
		token, err := f.provider.CreateToken(ctx, r.client, r.auth.DeviceCode)
		if errors.Is(err, ErrAuthorizationPending) {
			f.log.Debugw("authorization pending", "attempt", r.attempts)
			continue
		}
		if err != nil {
			return r.fail(err)
		}
		if token == nil || token.AccessToken == "" {
			return r.fail(ErrNoAccessToken)
		}

		r.token = token
		f.log.Debugw("token issued", "attempts", r.attempts)
		return StateExchanging
	}
}

func (f *Flow) exchange(ctx context.Context, r *resolution) State {
	creds, err := f.provider.GetRoleCredentials(ctx, r.token, r.profile.AccountID, r.profile.RoleName)
	if err != nil {
		return r.fail(err)
	}
	if creds == nil || creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return r.fail(ErrNoRoleCredentials)
	}

	r.creds = &Credentials{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		SessionToken:    creds.SessionToken,
		Expiration:      creds.Expiration,
	}
	f.log.Debugw("role credentials issued", "accountId", r.profile.AccountID, "roleName", r.profile.RoleName)
	return StateDone
}
