package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shrikebot/shrike/src/structs"
)

const apiVersion = 10

// Dispatcher receives every dispatch event under its lower-cased name.
// Fire must not block the caller.
type Dispatcher interface {
	Fire(event string, data json.RawMessage)
}

// Cache receives the internal bookkeeping side effects of the fixed
// dispatch event set (READY, GUILD_CREATE, CHANNEL_*).
type Cache interface {
	SetCurrentUser(user structs.User)
	PutGuild(guild structs.Guild)
	PutChannel(channel structs.Channel)
	DeleteChannel(id string)
}

type Options struct {
	BotToken   string
	BotIntents []Intent

	// GatewayURL overrides the default endpoint. Mostly for tests.
	GatewayURL string

	Dialer     Dialer
	Dispatcher Dispatcher
	Cache      Cache
	Retry      RetryPolicy
	Logger     *slog.Logger
}

// Gateway owns one persistent connection to the remote gateway and the
// session established over it. All inbound frames of a connection are
// processed in arrival order on a single goroutine; the heartbeat
// scheduler runs beside it and both mutate session state only through
// the shared mutex.
type Gateway struct {
	wsURL   string
	token   string
	intents uint64

	dialer     Dialer
	dispatcher Dispatcher
	cache      Cache
	retry      RetryPolicy
	log        *slog.Logger

	// jitter and after exist so tests can run reconnect and
	// invalid-session paths without real delays.
	jitter func() time.Duration
	after  func(time.Duration) <-chan time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	stopped atomic.Bool

	wmu sync.Mutex // serializes writes to the socket

	mu               sync.Mutex
	conn             Conn
	codec            *Codec
	hb               *heartbeat
	status           Status
	sessionID        string
	resumeGatewayURL string
	sequence         *int64
	ready            bool
}

func New(opts Options) *Gateway {
	wsURL := opts.GatewayURL
	if wsURL == "" {
		// https://discord.com/developers/docs/reference#http-api
		u := url.URL{
			Scheme:   "wss",
			Host:     "gateway.discord.gg",
			RawQuery: fmt.Sprintf("v=%d&encoding=json", apiVersion),
		}
		wsURL = u.String()
	}
	var intents uint64
	for _, intent := range opts.BotIntents {
		intents |= intent
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = DefaultDialer()
	}
	retry := opts.Retry
	if retry == nil {
		retry = NewExponentialRetry()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		wsURL:      wsURL,
		token:      opts.BotToken,
		intents:    intents,
		dialer:     dialer,
		dispatcher: opts.Dispatcher,
		cache:      opts.Cache,
		retry:      retry,
		log:        log,
		jitter:     sessionJitter,
		after:      time.After,
		status:     StatusDisconnected,
	}
}

// Open dials the gateway and returns once the socket open has been
// initiated. Identify, heartbeating and dispatch all proceed on
// background goroutines.
func (g *Gateway) Open(ctx context.Context) error {
	if g.stopped.Load() {
		return ErrClosed
	}
	g.mu.Lock()
	if g.conn != nil {
		g.mu.Unlock()
		return ErrAlreadyOpen
	}
	g.status = StatusConnecting
	g.mu.Unlock()

	g.ctx, g.cancel = context.WithCancel(ctx)
	g.log.Info("connecting to gateway", "url", g.wsURL)
	conn, err := g.dialer.Dial(g.ctx, g.wsURL)
	if err != nil {
		g.setStatus(StatusDisconnected)
		return fmt.Errorf("failed to connect to gateway: %w", err)
	}
	codec := NewCodec()
	g.mu.Lock()
	g.conn = conn
	g.codec = codec
	g.status = StatusWaitingForHello
	g.mu.Unlock()
	go g.listen(conn, codec)
	return nil
}

// Close tears down, in order, the heartbeat scheduler, the transport
// socket and the decompressor, and clears ready. It is idempotent and
// terminal: no reconnect is attempted afterwards, even one already in
// flight.
func (g *Gateway) Close() error {
	g.stopped.Store(true)
	if g.cancel != nil {
		g.cancel()
	}
	g.mu.Lock()
	hb := g.hb
	conn := g.conn
	codec := g.codec
	g.hb = nil
	g.conn = nil
	g.codec = nil
	g.mu.Unlock()
	if hb != nil {
		hb.stop()
	}
	if conn != nil {
		conn.Close()
	}
	if codec != nil {
		codec.Close()
	}
	g.mu.Lock()
	g.ready = false
	g.status = StatusDisconnected
	g.mu.Unlock()
	g.log.Info("gateway closed")
	return nil
}

// UpdatePresence publishes the bot's presence on the current
// connection. Status is one of "online", "dnd", "idle", "invisible".
func (g *Gateway) UpdatePresence(status string, activities ...structs.Activity) error {
	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	if activities == nil {
		activities = []structs.Activity{}
	}
	return g.sendEvent(conn, OpcodePresenceUpdate, structs.PresenceUpdate{
		Since:      nil,
		Activities: activities,
		Status:     status,
		AFK:        false,
	})
}

func (g *Gateway) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *Gateway) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ready
}

func (g *Gateway) SessionID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessionID
}

// Sequence returns a copy of the last-seen sequence number, nil before
// the first dispatch of a session.
func (g *Gateway) Sequence() *int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sequence == nil {
		return nil
	}
	seq := *g.sequence
	return &seq
}

func (g *Gateway) setStatus(status Status) {
	g.mu.Lock()
	g.status = status
	g.mu.Unlock()
}

// observeSequence records the newest sequence value seen, regardless of
// which opcode carried it. Never regresses.
func (g *Gateway) observeSequence(s int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sequence == nil || s > *g.sequence {
		seq := s
		g.sequence = &seq
	}
}

// clearSession forgets the session identity and sequence together.
// After this the next handshake must be a fresh identify.
func (g *Gateway) clearSession() {
	g.mu.Lock()
	g.sessionID = ""
	g.resumeGatewayURL = ""
	g.sequence = nil
	g.mu.Unlock()
}

// listen processes inbound frames of one connection in arrival order.
// It exits when the connection it was started for has been replaced.
func (g *Gateway) listen(conn Conn, codec *Codec) {
	for {
		g.mu.Lock()
		same := g.conn == conn
		g.mu.Unlock()
		if !same {
			return
		}
		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			if g.stopped.Load() || (g.ctx != nil && g.ctx.Err() != nil) {
				return
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && isFatalClose(closeErr.Code) {
				g.log.Error("gateway refused the connection permanently",
					"code", closeErr.Code, "error", closeCodeError(closeErr.Code))
				g.Close()
				return
			}
			g.log.Warn("transport closed, reconnecting", "error", err)
			g.reconnect(conn)
			return
		}
		event, err := codec.Decode(messageType, frame)
		if err != nil {
			g.log.Error("dropping undecodable frame", "error", err)
			continue
		}
		g.handle(conn, event)
	}
}

func (g *Gateway) handle(conn Conn, e *structs.RawEvent) {
	if e.S != nil {
		g.observeSequence(*e.S)
	}
	switch e.Op {
	case OpcodeHello:
		g.handleHello(conn, e)
	case OpcodeHeartbeat:
		// The server may demand a beat outside the schedule.
		if err := g.sendHeartbeat(conn); err != nil {
			g.log.Error("failed to answer heartbeat request", "error", err)
		}
	case OpcodeHeartbeatAck:
		g.mu.Lock()
		hb := g.hb
		g.mu.Unlock()
		if hb != nil {
			hb.ack()
		}
	case OpcodeReconnect:
		g.log.Info("server requested reconnect")
		g.reconnect(conn)
	case OpcodeInvalidSession:
		g.handleInvalidSession(conn, e)
	case OpcodeDispatch:
		g.handleDispatch(e)
	default:
		g.log.Debug("ignoring unknown opcode", "event", e)
	}
}

func (g *Gateway) handleHello(conn Conn, e *structs.RawEvent) {
	var hello structs.Hello
	if err := json.Unmarshal(e.D, &hello); err != nil {
		g.log.Error("dropping malformed hello", "error", err)
		return
	}
	g.startHeartbeat(conn, time.Duration(hello.HeartbeatInterval)*time.Millisecond)
	g.mu.Lock()
	resumable := g.sessionID != "" && g.sequence != nil
	g.mu.Unlock()
	var err error
	if resumable {
		err = g.sendResume(conn)
	} else {
		err = g.sendIdentify(conn)
	}
	if err != nil {
		g.log.Error("handshake send failed", "error", err)
		g.reconnect(conn)
	}
}

func (g *Gateway) sendIdentify(conn Conn) error {
	g.setStatus(StatusIdentifying)
	identify := structs.Identify{
		Token:   g.token,
		Intents: g.intents,
		Properties: structs.IdentifyProperties{
			Os:      runtime.GOOS,
			Browser: "shrike",
			Device:  "shrike",
		},
		Compress:       true,
		LargeThreshold: 250,
	}
	if err := g.sendEvent(conn, OpcodeIdentify, identify); err != nil {
		return err
	}
	g.log.Info("identify sent")
	return nil
}

func (g *Gateway) sendResume(conn Conn) error {
	g.setStatus(StatusResuming)
	g.mu.Lock()
	resume := structs.Resume{
		Token:     g.token,
		SessionID: g.sessionID,
	}
	if g.sequence != nil {
		resume.Seq = *g.sequence
	}
	g.mu.Unlock()
	if err := g.sendEvent(conn, OpcodeResume, resume); err != nil {
		return err
	}
	g.log.Info("resume sent", "session_id", resume.SessionID, "seq", resume.Seq)
	return nil
}

func (g *Gateway) handleInvalidSession(conn Conn, e *structs.RawEvent) {
	var resumable bool
	if len(e.D) > 0 {
		_ = json.Unmarshal(e.D, &resumable)
	}
	if resumable {
		g.log.Info("session invalidated, resuming")
		if err := g.sendResume(conn); err != nil {
			g.log.Error("resume send failed", "error", err)
			g.reconnect(conn)
		}
		return
	}
	g.log.Info("session invalidated permanently, identifying from scratch")
	g.clearSession()
	select {
	case <-g.ctx.Done():
		return
	case <-g.after(g.jitter()):
	}
	if g.stopped.Load() {
		return
	}
	if err := g.sendIdentify(conn); err != nil {
		g.log.Error("identify send failed", "error", err)
		g.reconnect(conn)
	}
}

func (g *Gateway) handleDispatch(e *structs.RawEvent) {
	switch e.T {
	case structs.EventNameReady:
		var ready structs.Ready
		if err := json.Unmarshal(e.D, &ready); err != nil {
			g.log.Error("dropping malformed ready", "error", err)
			return
		}
		g.mu.Lock()
		g.sessionID = ready.SessionID
		g.resumeGatewayURL = ready.ResumeGatewayURL
		g.ready = true
		g.status = StatusReady
		g.mu.Unlock()
		if g.cache != nil {
			g.cache.SetCurrentUser(ready.User)
			for _, guild := range ready.Guilds {
				g.cache.PutGuild(guild)
			}
		}
		g.log.Info("gateway is ready", "session_id", ready.SessionID, "guilds", len(ready.Guilds))
	case structs.EventNameResumed:
		g.mu.Lock()
		g.ready = true
		g.status = StatusReady
		g.mu.Unlock()
		g.log.Info("session resumed")
	case structs.EventNameGuildCreate:
		if g.cache != nil {
			var guild structs.Guild
			if err := json.Unmarshal(e.D, &guild); err != nil {
				g.log.Error("dropping malformed guild create", "error", err)
				return
			}
			g.cache.PutGuild(guild)
		}
	case structs.EventNameChannelCreate, structs.EventNameChannelUpdate:
		if g.cache != nil {
			var channel structs.Channel
			if err := json.Unmarshal(e.D, &channel); err != nil {
				g.log.Error("dropping malformed channel upsert", "error", err)
				return
			}
			g.cache.PutChannel(channel)
		}
	case structs.EventNameChannelDelete:
		if g.cache != nil {
			var channel structs.Channel
			if err := json.Unmarshal(e.D, &channel); err != nil {
				g.log.Error("dropping malformed channel delete", "error", err)
				return
			}
			g.cache.DeleteChannel(channel.ID)
		}
	}
	if g.dispatcher != nil {
		g.dispatcher.Fire(strings.ToLower(e.T), e.D)
	}
}

func (g *Gateway) startHeartbeat(conn Conn, interval time.Duration) {
	hb := newHeartbeat(interval,
		func() error { return g.sendHeartbeat(conn) },
		func() {
			g.log.Warn("heartbeat timed out, reconnecting")
			g.reconnect(conn)
		},
		g.log)
	g.mu.Lock()
	old := g.hb
	g.hb = hb
	g.mu.Unlock()
	if old != nil {
		old.stop()
	}
	go hb.run()
	g.log.Info("heartbeat scheduler started", "interval", interval)
}

func (g *Gateway) sendHeartbeat(conn Conn) error {
	var d interface{}
	g.mu.Lock()
	if g.sequence != nil {
		d = *g.sequence
	}
	g.mu.Unlock()
	return g.sendEvent(conn, OpcodeHeartbeat, d)
}

func (g *Gateway) sendEvent(conn Conn, op Opcode, d interface{}) error {
	data, err := Encode(op, d)
	if err != nil {
		return fmt.Errorf("failed to encode op %d event: %w", op, err)
	}
	g.wmu.Lock()
	defer g.wmu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

// reconnect replaces the connection after a transport failure, a
// heartbeat timeout or a server-requested reconnect. The session is
// preserved so the next hello resumes when possible. Retries run
// indefinitely under the injected policy; an explicit Close supersedes
// a reconnect already in flight.
func (g *Gateway) reconnect(old Conn) {
	if g.stopped.Load() {
		return
	}
	g.mu.Lock()
	if g.conn != old {
		// A newer connection or an explicit stop already took over.
		g.mu.Unlock()
		return
	}
	hb := g.hb
	codec := g.codec
	g.hb = nil
	g.conn = nil
	g.codec = nil
	g.ready = false
	g.status = StatusReconnecting
	g.mu.Unlock()
	if hb != nil {
		hb.stop()
	}
	old.Close()
	if codec != nil {
		codec.Close()
	}

	for {
		if g.stopped.Load() {
			return
		}
		delay := g.retry.NextDelay()
		g.log.Info("reconnecting to gateway", "delay", delay)
		select {
		case <-g.ctx.Done():
			return
		case <-g.after(delay):
		}
		if g.stopped.Load() {
			return
		}
		conn, err := g.dialer.Dial(g.ctx, g.connectURL())
		if err != nil {
			g.log.Error("reconnect failed", "error", err)
			continue
		}
		g.retry.Reset()
		newCodec := NewCodec()
		g.mu.Lock()
		if g.stopped.Load() {
			g.mu.Unlock()
			conn.Close()
			newCodec.Close()
			return
		}
		g.conn = conn
		g.codec = newCodec
		g.status = StatusWaitingForHello
		g.mu.Unlock()
		go g.listen(conn, newCodec)
		return
	}
}

// connectURL prefers the session's resume endpoint when one is known.
func (g *Gateway) connectURL() string {
	g.mu.Lock()
	resumeURL := g.resumeGatewayURL
	sessionID := g.sessionID
	g.mu.Unlock()
	if resumeURL == "" || sessionID == "" {
		return g.wsURL
	}
	u, err := url.Parse(resumeURL)
	if err != nil {
		return g.wsURL
	}
	u.RawQuery = fmt.Sprintf("v=%d&encoding=json", apiVersion)
	return u.String()
}

func isFatalClose(code int) bool {
	switch code {
	case CloseAuthenticationFailed, CloseDisallowedIntents:
		return true
	}
	return false
}

func closeCodeError(code int) error {
	switch code {
	case CloseAuthenticationFailed:
		return ErrAuthenticationFailed
	case CloseDisallowedIntents:
		return ErrDisallowedIntents
	}
	return nil
}
