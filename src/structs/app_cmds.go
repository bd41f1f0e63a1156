package structs

type AppCmdType = uint8

const (
	AppCmdTypeChatInput AppCmdType = 1
	AppCmdTypeUser      AppCmdType = 2
	AppCmdTypeMessage   AppCmdType = 3
)

type AppCmdIntegrationType = uint8

const (
	AppIntegrationTypeGuildInstall AppCmdIntegrationType = 0
	AppIntegrationTypeUserInstall  AppCmdIntegrationType = 1
)

type AppCmdContextType = uint8

const (
	AppCmdContextTypeGuild          AppCmdContextType = 0
	AppCmdContextTypeBotDM          AppCmdContextType = 1
	AppCmdContextTypePrivateChannel AppCmdContextType = 2
)

// AppCmd describes an application command as the API both accepts and
// returns it. ID, ApplicationID and Version are set by the server.
type AppCmd struct {
	ID               string                  `json:"id,omitempty"`
	Type             AppCmdType              `json:"type,omitempty"`
	ApplicationID    string                  `json:"application_id,omitempty"`
	GuildID          string                  `json:"guild_id,omitempty"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description"`
	Options          interface{}             `json:"options,omitempty"`
	IntegrationTypes []AppCmdIntegrationType `json:"integration_types,omitempty"`
	Contexts         []AppCmdContextType     `json:"contexts,omitempty"`
	NSFW             bool                    `json:"nsfw,omitempty"`
	Version          string                  `json:"version,omitempty"`
}
