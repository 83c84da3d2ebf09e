package components

import "github.com/yohamta/donburi"

// PauseMenuOption represents menu items in the in-match menu
type PauseMenuOption int

const (
	MenuResume PauseMenuOption = iota
	MenuLeave
)

// PauseData stores the in-match menu state. Online matches keep simulating
// while it is open; only practice freezes.
type PauseData struct {
	IsPaused       bool
	SelectedOption PauseMenuOption
}

var Pause = donburi.NewComponentType[PauseData]()
