package gateway

import "errors"

// https://discord.com/developers/docs/events/gateway#gateway-intents
type Intent = uint64

const (
	GuildsIntent                      Intent = 1 << 0
	GuildMembersIntent                Intent = 1 << 1
	GuildModerationIntent             Intent = 1 << 2
	GuildExpressionIntent             Intent = 1 << 3
	GuildIntegrationsIntent           Intent = 1 << 4
	GuildWebhooksIntent               Intent = 1 << 5
	GuildInvitesIntent                Intent = 1 << 6
	GuildVoiceStatesIntent            Intent = 1 << 7
	GuildPresencesIntent              Intent = 1 << 8
	GuildMessagesIntent               Intent = 1 << 9
	GuildMessageReactionIntent        Intent = 1 << 10
	GuildMessageTypingIntent          Intent = 1 << 11
	DirectMessageIntent               Intent = 1 << 12
	DirectMessageReactionIntent       Intent = 1 << 13
	DirectMessageTypingIntent         Intent = 1 << 14
	MessageContentIntent              Intent = 1 << 15
	GuildScheduledEventsIntent        Intent = 1 << 16
	AutoModerationConfigurationIntent Intent = 1 << 20
	AutoModerationExecutionIntent     Intent = 1 << 21
	GuildMessagePollsIntent           Intent = 1 << 24
	DirectMessagePollsIntent          Intent = 1 << 25
)

type Status = string

const (
	StatusDisconnected    Status = "DISCONNECTED"
	StatusConnecting      Status = "CONNECTING"
	StatusWaitingForHello Status = "WAITING_FOR_HELLO"
	StatusIdentifying     Status = "IDENTIFYING"
	StatusResuming        Status = "RESUMING"
	StatusReady           Status = "READY"
	StatusReconnecting    Status = "RECONNECTING"
)

type Opcode = int

const (
	OpcodeDispatch       Opcode = 0
	OpcodeHeartbeat      Opcode = 1
	OpcodeIdentify       Opcode = 2
	OpcodePresenceUpdate Opcode = 3
	OpcodeResume         Opcode = 6
	OpcodeReconnect      Opcode = 7
	OpcodeInvalidSession Opcode = 9
	OpcodeHello          Opcode = 10
	OpcodeHeartbeatAck   Opcode = 11
)

type CloseEventCode = int

const (
	CloseUnknownError         CloseEventCode = 4000
	CloseUnknownOpcode        CloseEventCode = 4001
	CloseDecodeError          CloseEventCode = 4002
	CloseNotAuthenticated     CloseEventCode = 4003
	CloseAuthenticationFailed CloseEventCode = 4004
	CloseAlreadyAuthenticated CloseEventCode = 4005
	CloseInvalidSeq           CloseEventCode = 4007
	CloseRateLimited          CloseEventCode = 4008
	CloseSessionTimedOut      CloseEventCode = 4009
	CloseDisallowedIntents    CloseEventCode = 4014
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrDisallowedIntents    = errors.New("disallowed intent. you may have tried to specify an intent that you have not enabled")
	ErrNotConnected         = errors.New("gateway is not connected")
	ErrAlreadyOpen          = errors.New("gateway is already open")
	ErrClosed               = errors.New("gateway is closed")
)
