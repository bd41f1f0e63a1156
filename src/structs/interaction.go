package structs

type InteractionType = int

const (
	InteractionTypePing               InteractionType = 1
	InteractionTypeApplicationCommand InteractionType = 2
)

type InteractionResponseType = int

const (
	InteractionResponseTypePong                             InteractionResponseType = 1
	InteractionResponseTypeChannelMessageWithSource         InteractionResponseType = 4
	InteractionResponseTypeDeferredChannelMessageWithSource InteractionResponseType = 5
)

type InteractionData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

type Interaction struct {
	ID            string          `json:"id"`
	ApplicationID string          `json:"application_id"`
	Type          InteractionType `json:"type"`
	Data          InteractionData `json:"data,omitempty"`
	GuildID       string          `json:"guild_id,omitempty"`
	ChannelID     string          `json:"channel_id,omitempty"`
	Member        *Member         `json:"member,omitempty"`
	Token         string          `json:"token"`
	Version       int             `json:"version"`
}

type InteractionResponseDataMessage struct {
	Content string `json:"content"`
}

type InteractionResponse struct {
	Type InteractionResponseType `json:"type"`
	Data interface{}             `json:"data,omitempty"`
}
