package app

import (
	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

func (a BackpressureAction) String() string {
	switch a {
	case DropFrame:
		return "drop"
	case KickMember:
		return "kick"
	}
	return "none"
}

// Policy decides what happens to a member whose outbound queue is full.
// Kicking only closes the transport; the disconnect path does the cleanup.
type Policy interface {
	OnBackPressure(room domain.RoomKey, member core.MemberSession) BackpressureAction
}

type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(domain.RoomKey, core.MemberSession) BackpressureAction {
	return p.Action
}

// PolicyFromString maps the slow_consumer config value; unknown values drop.
func PolicyFromString(s string) Policy {
	if s == "kick" {
		return SimplePolicy{Action: KickMember}
	}
	return SimplePolicy{Action: DropFrame}
}
