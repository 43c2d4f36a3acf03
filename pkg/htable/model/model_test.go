package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/htable/pkg/htable"
	"github.com/calvinalkan/htable/pkg/htable/model"
)

func Test_Model_Returns_Error_When_Options_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		capacity int
		policy   htable.DuplicatePolicy
	}{
		{name: "NegativeCapacity", capacity: -1, policy: htable.Overwrite},
		{name: "CoexistPolicy", capacity: 4, policy: htable.Coexist},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := model.New[int](testCase.capacity, testCase.policy)
			require.ErrorIs(t, err, htable.ErrInvalidInput, "New should reject invalid options")
		})
	}
}

func Test_Model_Enforces_Capacity_When_Keys_Are_New(t *testing.T) {
	t.Parallel()

	m, err := model.New[int](2, htable.Overwrite)
	require.NoError(t, err)

	require.NoError(t, m.Insert("a", 1))
	require.NoError(t, m.Insert("b", 2))
	require.ErrorIs(t, m.Insert("c", 3), htable.ErrCapacityExhausted)
	require.NoError(t, m.Insert("a", 10), "overwrite of a stored key needs no free slot")

	got, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 10, got)
}

func Test_Model_Rejects_Duplicate_When_Policy_Reject(t *testing.T) {
	t.Parallel()

	m, err := model.New[string](3, htable.Reject)
	require.NoError(t, err)

	require.NoError(t, m.Insert("egg", "one"))
	require.ErrorIs(t, m.Insert("egg", "two"), htable.ErrDuplicateKey)

	got, err := m.Get("egg")
	require.NoError(t, err)
	assert.Equal(t, "one", got)
}

func Test_Model_Erase_And_Clear_Remove_Keys(t *testing.T) {
	t.Parallel()

	m, err := model.New[int](4, htable.Overwrite)
	require.NoError(t, err)

	require.NoError(t, m.Insert("a", 1))
	require.NoError(t, m.Insert("b", 2))

	require.NoError(t, m.Erase("a"))
	require.ErrorIs(t, m.Erase("a"), htable.ErrKeyNotFound)

	_, err = m.Get("a")
	require.ErrorIs(t, err, htable.ErrKeyNotFound)

	m.Clear()
	assert.Equal(t, 0, m.Len())
}

func Test_Model_Clone_Is_Independent_When_Original_Mutated(t *testing.T) {
	t.Parallel()

	m, err := model.New[int](4, htable.Overwrite)
	require.NoError(t, err)
	require.NoError(t, m.Insert("a", 1))

	clone := m.Clone()
	if diff := cmp.Diff(m, clone); diff != "" {
		t.Fatalf("clone mismatch (-original +clone):\n%s", diff)
	}

	require.NoError(t, m.Insert("b", 2))
	assert.Equal(t, 1, clone.Len())

	var nilModel *model.Table[int]
	assert.Nil(t, nilModel.Clone())
}
