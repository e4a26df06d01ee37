package match

import "fmt"

// headToHead is the default ruleset: every player for themselves. It keeps no
// per-user state and recognizes no requests.
type headToHead struct{}

func (headToHead) UserJoined(*User) {}

func (headToHead) UserLeft(*User) {}

func (headToHead) Initialize([]*User) {}

func (headToHead) HandleUserRequest(_ *User, req Request) error {
	return invalidState(fmt.Sprintf("head to head does not accept requests (got %T)", req))
}
