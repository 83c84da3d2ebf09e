package factory

import (
	"github.com/automoto/gridduel/archetypes"
	"github.com/automoto/gridduel/components"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func CreateMatch(ecs *ecs.ECS, data components.MatchData) *donburi.Entry {
	match := archetypes.Match.Spawn(ecs)
	components.Match.SetValue(match, data)
	return match
}

// CreateBot spawns the practice opponent driving handle.
func CreateBot(ecs *ecs.ECS, handle int) *donburi.Entry {
	bot := archetypes.Bot.Spawn(ecs)
	components.Bot.SetValue(bot, components.BotData{Handle: handle})
	return bot
}
