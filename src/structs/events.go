package structs

import (
	"encoding/json"
	"log/slog"
)

type EventName = string

const (
	EventNameReady         EventName = "READY"
	EventNameResumed       EventName = "RESUMED"
	EventNameGuildCreate   EventName = "GUILD_CREATE"
	EventNameChannelCreate EventName = "CHANNEL_CREATE"
	EventNameChannelUpdate EventName = "CHANNEL_UPDATE"
	EventNameChannelDelete EventName = "CHANNEL_DELETE"
	EventNameMessageCreate EventName = "MESSAGE_CREATE"
)

// RawEvent is an inbound wire envelope. D is kept raw to delay
// payload decoding until the event name is known.
type RawEvent struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d,omitempty"`
	S  *int64          `json:"s,omitempty"`
	T  EventName       `json:"t,omitempty"`
}

func (re *RawEvent) LogValue() slog.Value {
	var seq int64
	if re.S != nil {
		seq = *re.S
	}
	return slog.GroupValue(slog.Int("op_code", re.Op),
		slog.Int64("sequence", seq),
		slog.String("event_name", re.T))
}

// Event is an outbound wire envelope. Fields left unset are omitted
// from the encoded form entirely.
type Event struct {
	Op int         `json:"op"`
	D  interface{} `json:"d,omitempty"`
	S  *int64      `json:"s,omitempty"`
	T  EventName   `json:"t,omitempty"`
}

type Hello struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

type IdentifyProperties struct {
	Os      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

type Identify struct {
	Token          string             `json:"token"`
	Intents        uint64             `json:"intents"`
	Properties     IdentifyProperties `json:"properties"`
	Compress       bool               `json:"compress"`
	LargeThreshold uint8              `json:"large_threshold"`
}

type Resume struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Seq       int64  `json:"seq"`
}

type Ready struct {
	V                int     `json:"v"`
	User             User    `json:"user"`
	Guilds           []Guild `json:"guilds"`
	SessionID        string  `json:"session_id"`
	ResumeGatewayURL string  `json:"resume_gateway_url"`
}

type Activity struct {
	Name string `json:"name"`
	Type int    `json:"type"`
}

type PresenceUpdate struct {
	Since      *int64     `json:"since"`
	Activities []Activity `json:"activities"`
	Status     string     `json:"status"`
	AFK        bool       `json:"afk"`
}
