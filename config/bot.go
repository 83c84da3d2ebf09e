package config

// BotDifficulty affects reaction time and aim
type BotDifficulty int

const (
	BotDifficultyEasy BotDifficulty = iota
	BotDifficultyNormal
	BotDifficultyHard
)

// BotDifficultyConfig holds tuning values for bot behavior at a specific difficulty
type BotDifficultyConfig struct {
	ReactionDelay int     // Frames between decisions
	AimTolerance  float64 // World units off-axis at which the bot still fires
	KeepDistance  float64 // World units the bot tries to stay away
}

// BotConfigData holds all bot-related configuration
type BotConfigData struct {
	Difficulty   BotDifficulty
	Difficulties map[BotDifficulty]BotDifficultyConfig
	// LOSStep is the sampling distance, in world units, of line of sight checks.
	LOSStep float64
	// LOSCheckSize is the half extent of each sample box.
	LOSCheckSize float64
}

// Bot holds bot AI configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		Difficulty:   BotDifficultyNormal,
		LOSStep:      0.25,
		LOSCheckSize: 0.05,
		Difficulties: map[BotDifficulty]BotDifficultyConfig{
			BotDifficultyEasy: {
				ReactionDelay: 30, // 0.5 second reaction time
				AimTolerance:  0.15,
				KeepDistance:  4,
			},
			BotDifficultyNormal: {
				ReactionDelay: 12,
				AimTolerance:  0.3,
				KeepDistance:  6,
			},
			BotDifficultyHard: {
				ReactionDelay: 4, // Near-instant reaction
				AimTolerance:  0.45,
				KeepDistance:  8,
			},
		},
	}
}
