package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityUnmarshalBareString(t *testing.T) {
	var id Identity
	require.NoError(t, json.Unmarshal([]byte(`"abc123"`), &id))
	assert.Equal(t, "abc123", id.ID)
	assert.Empty(t, id.Username)
}

func TestIdentityUnmarshalObject(t *testing.T) {
	var id Identity
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"abc123","username":"alice1"}`), &id))
	assert.Equal(t, "abc123", id.ID)
	assert.Equal(t, "alice1", id.Username)
}

func TestIdentityUnmarshalAltIDKey(t *testing.T) {
	var id Identity
	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc123"}`), &id))
	assert.Equal(t, "abc123", id.ID)
}

func TestIdentityMarshalsAsObject(t *testing.T) {
	out, err := json.Marshal(Identity{ID: "abc123"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"abc123"}`, string(out))
}

func TestIdentityDisplayName(t *testing.T) {
	assert.Equal(t, "alice1", Identity{ID: "a", Username: "alice1"}.DisplayName())
	assert.Equal(t, "Someone", Identity{ID: "a"}.DisplayName())
}

func TestFriendRequestSenderIdentity(t *testing.T) {
	ev := FriendRequestEvent{
		ReceiverID: "bbb",
		Request:    json.RawMessage(`{"sender":{"_id":"aaa","username":"alice1"}}`),
	}
	sender := ev.SenderIdentity()
	assert.Equal(t, "aaa", sender.ID)
	assert.Equal(t, "alice1", sender.Username)

	// bare-id sender inside the request body
	ev.Request = json.RawMessage(`{"sender":"aaa"}`)
	assert.Equal(t, "aaa", ev.SenderIdentity().ID)
}
