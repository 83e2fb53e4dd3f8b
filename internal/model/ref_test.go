package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefUnmarshalIDString(t *testing.T) {
	id := uuid.New()

	var ref Ref[Specialty]
	require.NoError(t, json.Unmarshal([]byte(`"`+id.String()+`"`), &ref))

	assert.Equal(t, id, ref.ResolveID())
	assert.Nil(t, ref.Inline)
	assert.False(t, ref.IsZero())
}

func TestRefUnmarshalInlineObject(t *testing.T) {
	id := uuid.New()
	payload := []byte(`{"id":"` + id.String() + `","name":"Dermatology"}`)

	var ref Ref[Specialty]
	require.NoError(t, json.Unmarshal(payload, &ref))

	assert.Equal(t, id, ref.ResolveID())
	require.NotNil(t, ref.Inline)
	assert.Equal(t, "Dermatology", ref.Inline.Name)
}

func TestRefUnmarshalInvalid(t *testing.T) {
	var ref Ref[Specialty]

	require.Error(t, json.Unmarshal([]byte(`"not-a-uuid"`), &ref))
	require.Error(t, json.Unmarshal([]byte(`42`), &ref))
}

func TestRefUnmarshalEmptyString(t *testing.T) {
	var ref Ref[Specialty]
	require.NoError(t, json.Unmarshal([]byte(`""`), &ref))
	assert.True(t, ref.IsZero())
}

func TestRefMarshal(t *testing.T) {
	id := uuid.New()

	data, err := json.Marshal(RefFromID[Specialty](id))
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(data))

	data, err = json.Marshal(Ref[Specialty]{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	inline := Ref[Specialty]{ID: id, Inline: &Specialty{Base: Base{ID: id}, Name: "Dermatology"}}
	data, err = json.Marshal(inline)
	require.NoError(t, err)

	var round Ref[Specialty]
	require.NoError(t, json.Unmarshal(data, &round))
	assert.Equal(t, id, round.ResolveID())
	require.NotNil(t, round.Inline)
	assert.Equal(t, "Dermatology", round.Inline.Name)
}
