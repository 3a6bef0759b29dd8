package pure_utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hello", Truncate("hello", 200))
	assert.Equal(t, "héll", Truncate("héllo", 4), "multi-byte characters count as one")
	assert.Equal(t, "血压", Truncate("血压偏高", 2))
}

func TestLast(t *testing.T) {
	assert.Equal(t, []int{4, 5}, Last([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, []int{1, 2}, Last([]int{1, 2}, 5))
	assert.Equal(t, []int{}, Last([]int{1, 2}, 0))
}

func TestFilterAndMap(t *testing.T) {
	evens := Filter([]int{1, 2, 3, 4}, func(i int) bool { return i%2 == 0 })
	assert.Equal(t, []int{2, 4}, evens)
	assert.Equal(t, []string{"a!", "b!"}, Map([]string{"a", "b"}, func(s string) string { return s + "!" }))
}
