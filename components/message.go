package components

import "github.com/yohamta/donburi"

// ToastData is a short notice about the session, shown at the top of the
// screen until Timer runs out.
type ToastData struct {
	Text  string
	Warn  bool
	Timer int // frames remaining
	Seq   int // creation order, newest highest
}

var Toast = donburi.NewComponentType[ToastData]()
