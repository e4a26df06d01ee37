package match

import (
	"encoding/json"
	"fmt"
)

// Request is a user-initiated match request. Each ruleset recognizes its own
// subset of request kinds and rejects the rest with InvalidStateError.
type Request interface {
	isRequest()
}

// ChangeTeamRequest asks to move the requesting user to another team.
type ChangeTeamRequest struct {
	TeamID int `json:"team_id"`
}

func (ChangeTeamRequest) isRequest() {}

const RequestKindChangeTeam = "change_team"

// DecodeRequest builds a Request from its wire form: a kind tag and a raw
// JSON payload.
func DecodeRequest(kind string, data json.RawMessage) (Request, error) {
	switch kind {
	case RequestKindChangeTeam:
		var req ChangeTeamRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("unmarshal change team request: %w", err)
		}
		return req, nil
	default:
		return nil, invalidState(fmt.Sprintf("unknown request kind %q", kind))
	}
}
