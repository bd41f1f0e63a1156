package structs

type ChannelType = int

const (
	ChannelTypeGuildText     ChannelType = 0
	ChannelTypeDM            ChannelType = 1
	ChannelTypeGuildVoice    ChannelType = 2
	ChannelTypeGroupDM       ChannelType = 3
	ChannelTypeGuildCategory ChannelType = 4
)

type Channel struct {
	ID       string      `json:"id"`
	GuildID  string      `json:"guild_id,omitempty"`
	Name     string      `json:"name,omitempty"`
	Type     ChannelType `json:"type"`
	Topic    string      `json:"topic,omitempty"`
	Position int         `json:"position,omitempty"`
	ParentID string      `json:"parent_id,omitempty"`
}
