// Deterministic tests comparing htable against the in-memory reference model.
// Uses seeded PRNG for reproducible operation sequences across multiple config profiles.
//
// Failures mean: the table returned wrong results or wrong errors.

package htable_test

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/htable/pkg/htable"
	"github.com/calvinalkan/htable/pkg/htable/model"
)

type testProfile struct {
	name     string
	capacity int
	policy   htable.DuplicatePolicy
	hash     htable.HashFunc
}

// Profiles ordered from most constrained to least constrained.
var modelProfiles = []testProfile{
	{"Capacity0_Overwrite_Djb2", 0, htable.Overwrite, htable.Djb2},
	{"Capacity1_Overwrite_Djb2", 1, htable.Overwrite, htable.Djb2},
	{"Capacity3_Reject_FNV1a", 3, htable.Reject, htable.FNV1a},
	{"Capacity7_Overwrite_Djb2", 7, htable.Overwrite, htable.Djb2},
	{"Capacity8_Reject_XXHash", 8, htable.Reject, htable.XXHash},
	{"Capacity16_Overwrite_XXHash", 16, htable.Overwrite, htable.XXHash},
}

// Small key alphabet so sequences hit collisions, duplicates and exhaustion.
var modelKeys = []string{"aa", "ai", "aq", "ay", "egg", "milk", "flour", "sugar", "cream", "bread", ""}

func sentinel(err error) error {
	for _, s := range []error{
		htable.ErrCapacityExhausted,
		htable.ErrKeyNotFound,
		htable.ErrDuplicateKey,
		htable.ErrInvalidInput,
	} {
		if errors.Is(err, s) {
			return s
		}
	}

	return err
}

func Test_Table_Matches_Model_When_Seeded_Random_Ops_Applied(t *testing.T) {
	t.Parallel()

	seedsPerProfile := 20
	if testing.Short() {
		seedsPerProfile = 3
	}

	opsPerSeed := 400

	for _, profile := range modelProfiles {
		for seedIndex := range seedsPerProfile {
			seed := uint64(seedIndex + 1)

			t.Run(fmt.Sprintf("%s/seed=%d", profile.name, seed), func(t *testing.T) {
				t.Parallel()

				rng := rand.New(rand.NewPCG(seed, seed))

				table := htable.MustNew[int](profile.capacity,
					htable.WithDuplicates(profile.policy),
					htable.WithHash(profile.hash),
					htable.WithLogger(quietLogger()),
				)

				oracle, err := model.New[int](profile.capacity, profile.policy)
				require.NoError(t, err)

				for step := range opsPerSeed {
					key := modelKeys[rng.IntN(len(modelKeys))]
					value := rng.IntN(1000)

					var op string

					switch roll := rng.IntN(100); {
					case roll < 50:
						op = fmt.Sprintf("Insert(%q, %d)", key, value)
						_, tableErr := table.Insert(key, value)
						modelErr := oracle.Insert(key, value)
						require.Equal(t, modelErr, sentinel(tableErr), "step %d: %s", step, op)

					case roll < 75:
						op = fmt.Sprintf("Get(%q)", key)
						tableValue, tableErr := table.Get(key)
						modelValue, modelErr := oracle.Get(key)
						require.Equal(t, modelErr, sentinel(tableErr), "step %d: %s", step, op)
						require.Equal(t, modelValue, tableValue, "step %d: %s", step, op)

					case roll < 97:
						op = fmt.Sprintf("Erase(%q)", key)
						tableErr := table.Erase(key)
						modelErr := oracle.Erase(key)
						require.Equal(t, modelErr, sentinel(tableErr), "step %d: %s", step, op)

					default:
						op = "Clear()"
						table.Clear()
						oracle.Clear()
					}

					require.Equal(t, oracle.Len(), table.Len(), "step %d: %s", step, op)
					require.LessOrEqual(t, table.Len(), table.Cap(), "step %d: %s", step, op)

					if step%10 == 0 {
						if diff := cmp.Diff(oracle.Entries, maps.Collect(table.All())); diff != "" {
							t.Fatalf("step %d: %s: entries mismatch (-model +table):\n%s", step, op, diff)
						}
					}
				}
			})
		}
	}
}
