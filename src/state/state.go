// Package state caches the remote objects the gateway reports: the
// current user, guilds and channels. It exists so REST convenience
// code can answer "who am I" without a round trip.
package state

import (
	"sync"

	"github.com/shrikebot/shrike/src/structs"
)

type State struct {
	mu       sync.RWMutex
	user     structs.User
	hasUser  bool
	guilds   map[string]structs.Guild
	channels map[string]structs.Channel
}

func New() *State {
	return &State{
		guilds:   make(map[string]structs.Guild),
		channels: make(map[string]structs.Channel),
	}
}

func (s *State) SetCurrentUser(user structs.User) {
	s.mu.Lock()
	s.user = user
	s.hasUser = true
	s.mu.Unlock()
}

func (s *State) CurrentUser() (structs.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.hasUser
}

// PutGuild upserts a guild and indexes the channels it carries.
func (s *State) PutGuild(guild structs.Guild) {
	s.mu.Lock()
	s.guilds[guild.ID] = guild
	for _, channel := range guild.Channels {
		if channel.GuildID == "" {
			channel.GuildID = guild.ID
		}
		s.channels[channel.ID] = channel
	}
	s.mu.Unlock()
}

func (s *State) Guild(id string) (structs.Guild, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	guild, ok := s.guilds[id]
	return guild, ok
}

func (s *State) Guilds() []structs.Guild {
	s.mu.RLock()
	defer s.mu.RUnlock()
	guilds := make([]structs.Guild, 0, len(s.guilds))
	for _, guild := range s.guilds {
		guilds = append(guilds, guild)
	}
	return guilds
}

func (s *State) PutChannel(channel structs.Channel) {
	s.mu.Lock()
	s.channels[channel.ID] = channel
	s.mu.Unlock()
}

func (s *State) Channel(id string) (structs.Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channel, ok := s.channels[id]
	return channel, ok
}

func (s *State) DeleteChannel(id string) {
	s.mu.Lock()
	delete(s.channels, id)
	s.mu.Unlock()
}

func (s *State) Channels() []structs.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channels := make([]structs.Channel, 0, len(s.channels))
	for _, channel := range s.channels {
		channels = append(channels, channel)
	}
	return channels
}
