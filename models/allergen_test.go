package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAllergenSet(t *testing.T) {
	s, err := ParseAllergenSet([]string{"Tree_Nuts", " gluten ", "gluten"})
	require.NoError(t, err)
	assert.Equal(t, []string{"gluten", "tree_nuts"}, s.Names())
	assert.True(t, s.Has(Gluten))
	assert.False(t, s.Has(Celery))

	_, err = ParseAllergenSet([]string{"shellfish"})
	require.ErrorIs(t, err, ErrUnknownAllergen)
}

func TestAllergenSetJSON(t *testing.T) {
	raw, err := json.Marshal(NewAllergenSet(Sesame, Celery))
	require.NoError(t, err)
	assert.JSONEq(t, `["celery","sesame"]`, string(raw))

	var empty AllergenSet
	raw, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	var back AllergenSet
	require.NoError(t, json.Unmarshal([]byte(`["mustard","sulphur_dioxide"]`), &back))
	assert.Equal(t, NewAllergenSet(Mustard, SulphurDioxide), back)
	assert.Error(t, json.Unmarshal([]byte(`["milk"]`), &back))
}

func TestAllergenSetIntersect(t *testing.T) {
	meal := NewAllergenSet(Peanuts, Soybeans)
	assert.True(t, meal.Intersect(NewAllergenSet(Lupin)).Empty())
	assert.Equal(t, NewAllergenSet(Soybeans), meal.Intersect(NewAllergenSet(Soybeans, Lupin)))
	assert.Len(t, AllAllergens(), 9)
}

func TestFriendshipPairKey(t *testing.T) {
	assert.Equal(t, FriendshipPairKey(3, 7), FriendshipPairKey(7, 3))
	assert.Equal(t, "3:7", FriendshipPairKey(7, 3))

	f := Friendship{RequesterID: 3, RequestedID: 7}
	assert.Equal(t, uint(7), f.OtherParty(3))
	assert.Equal(t, uint(3), f.OtherParty(7))
}
