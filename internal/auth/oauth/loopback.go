package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/openpaws/openpaws/internal/metrics"
	"github.com/openpaws/openpaws/internal/platforms"
)

// LoopbackTimeout is how long a terminal flow waits for its callback.
const LoopbackTimeout = 5 * time.Minute

var (
	ErrFlowTimeout   = errors.New("OAuth callback timeout")
	ErrLoopbackClose = errors.New("callback server closed")
)

// Loopback runs the connect flow for terminal users: a local server receives
// the callback and hands the result to whoever started the flow. Pending
// flows are keyed by their CSRF state.
type Loopback struct {
	conn     *Connector
	listener net.Listener
	srv      *http.Server
	timeout  time.Duration

	mu      sync.Mutex
	pending map[string]*Flow
}

// Flow is one pending loopback authorization.
type Flow struct {
	Platform platforms.Platform
	URL      string

	redirectURI string
	verifier    string
	result      chan flowResult
	once        sync.Once
	timer       *time.Timer
}

type flowResult struct {
	account *ConnectedAccount
	err     error
}

// StartLoopback listens on addr (for example "127.0.0.1:0") and serves
// callbacks until Close.
func StartLoopback(conn *Connector, addr string) (*Loopback, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	l := &Loopback{
		conn:     conn,
		listener: ln,
		timeout:  LoopbackTimeout,
		pending:  make(map[string]*Flow),
	}

	r := chi.NewRouter()
	r.Get("/connect/{platform}/callback", l.handleCallback)
	l.srv = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Callback server error")
		}
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("Callback server listening")
	return l, nil
}

// BaseURL is the origin platforms redirect back to.
func (l *Loopback) BaseURL() string {
	return "http://" + l.listener.Addr().String()
}

// Start begins a flow for p. The caller opens flow.URL in a browser and
// then waits on the flow.
func (l *Loopback) Start(p platforms.Platform) (*Flow, error) {
	if !platforms.IsConfigured(p) {
		return nil, fmt.Errorf("platform %s is not configured", p)
	}
	redirectURI := fmt.Sprintf("%s/connect/%s/callback", l.BaseURL(), p)
	auth, err := l.conn.Authorize(p, redirectURI)
	if err != nil {
		return nil, err
	}

	f := &Flow{
		Platform:    p,
		URL:         auth.URL,
		redirectURI: redirectURI,
		verifier:    auth.Verifier,
		result:      make(chan flowResult, 1),
	}

	state := auth.State
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending[state] = f
	// The timer's take blocks on l.mu until the flow is fully registered.
	f.timer = time.AfterFunc(l.timeout, func() {
		if pending := l.take(state); pending != nil {
			log.Warn().Str("platform", string(p)).Dur("timeout", l.timeout).Msg("OAuth callback timeout")
			pending.resolve(nil, ErrFlowTimeout)
		}
	})
	return f, nil
}

// RedirectURI is the callback URL the platform must accept for this flow.
func (f *Flow) RedirectURI() string {
	return f.redirectURI
}

// Wait blocks until the flow resolves or ctx is done.
func (f *Flow) Wait(ctx context.Context) (*ConnectedAccount, error) {
	select {
	case res := <-f.result:
		return res.account, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Flow) resolve(acct *ConnectedAccount, err error) {
	f.once.Do(func() {
		if f.timer != nil {
			f.timer.Stop()
		}
		f.result <- flowResult{account: acct, err: err}
	})
}

// take removes and returns the flow registered under state.
func (l *Loopback) take(state string) *Flow {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, ok := l.pending[state]
	if !ok {
		return nil
	}
	delete(l.pending, state)
	return f
}

func (l *Loopback) handleCallback(w http.ResponseWriter, r *http.Request) {
	p, ok := platforms.Parse(chi.URLParam(r, "platform"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid platform")
		return
	}
	q := r.URL.Query()
	state := q.Get("state")
	if state == "" {
		deliver(w, l.BaseURL(), p, nil, msgMissingParams)
		return
	}

	f := l.take(state)
	if f == nil || f.Platform != p {
		if f != nil {
			f.resolve(nil, errors.New(msgInvalidState))
		}
		deliver(w, l.BaseURL(), p, nil, msgInvalidState)
		return
	}

	if denied := q.Get("error"); denied != "" {
		l.finish(w, f, nil, "Authorization denied: "+denied)
		return
	}
	code := q.Get("code")
	if code == "" {
		l.finish(w, f, nil, msgMissingParams)
		return
	}

	acct, err := l.conn.Complete(r.Context(), p, code, f.redirectURI, f.verifier)
	if err != nil {
		l.finish(w, f, nil, err.Error())
		return
	}
	l.finish(w, f, acct, "")
}

func (l *Loopback) finish(w http.ResponseWriter, f *Flow, acct *ConnectedAccount, errMsg string) {
	outcome := metrics.OutcomeSuccess
	var err error
	if errMsg != "" {
		outcome = metrics.OutcomeFailure
		err = errors.New(errMsg)
	}
	l.conn.metrics.ObserveCallback(string(f.Platform), outcome)
	f.resolve(acct, err)
	deliver(w, l.BaseURL(), f.Platform, acct, errMsg)
}

// Close stops the server and fails every pending flow.
func (l *Loopback) Close(ctx context.Context) error {
	l.mu.Lock()
	pending := l.pending
	l.pending = make(map[string]*Flow)
	l.mu.Unlock()

	for _, f := range pending {
		f.resolve(nil, ErrLoopbackClose)
	}
	return l.srv.Shutdown(ctx)
}
