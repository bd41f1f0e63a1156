package interactions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shrikebot/shrike/src/structs"
)

// RegisterCommands overwrites the full global command list for the
// application and returns the commands as the server stored them.
func (i *InteractionAPI) RegisterCommands(ctx context.Context, applicationID string, commands []structs.AppCmd) ([]structs.AppCmd, error) {
	path := fmt.Sprintf("/applications/%s/commands", applicationID)
	res, err := i.rest.Put(ctx, path, commands, nil)
	if err != nil {
		return nil, err
	}
	var stored []structs.AppCmd
	if err := json.Unmarshal(res, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// RegisterGuildCommands is the guild-scoped variant. Guild commands
// propagate instantly, which makes them the right tool during
// development.
func (i *InteractionAPI) RegisterGuildCommands(ctx context.Context, applicationID string, guildID string, commands []structs.AppCmd) ([]structs.AppCmd, error) {
	path := fmt.Sprintf("/applications/%s/guilds/%s/commands", applicationID, guildID)
	res, err := i.rest.Put(ctx, path, commands, nil)
	if err != nil {
		return nil, err
	}
	var stored []structs.AppCmd
	if err := json.Unmarshal(res, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}
