package match_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/MatchRoom/internal/domain/match"
)

func TestDecodeRequestChangeTeam(t *testing.T) {
	req, err := match.DecodeRequest(match.RequestKindChangeTeam, json.RawMessage(`{"team_id":1}`))
	require.NoError(t, err)

	assert.Equal(t, match.ChangeTeamRequest{TeamID: 1}, req)
}

func TestDecodeRequestUnknownKind(t *testing.T) {
	_, err := match.DecodeRequest("start_countdown", nil)

	var invalid *match.InvalidStateError
	require.ErrorAs(t, err, &invalid)
}

func TestDecodeRequestMalformedPayload(t *testing.T) {
	_, err := match.DecodeRequest(match.RequestKindChangeTeam, json.RawMessage(`{"team_id":"red"}`))
	require.Error(t, err)
}
