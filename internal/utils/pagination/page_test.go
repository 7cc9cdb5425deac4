package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Page{Page: 1, Limit: 20}, Parse("", ""))
	assert.Equal(t, Page{Page: 3, Limit: 5}, Parse("3", "5"))

	// garbage and non-positive values fall back to defaults
	assert.Equal(t, Page{Page: 1, Limit: 20}, Parse("abc", "-1"))
	assert.Equal(t, Page{Page: 1, Limit: 20}, Parse("0", "0"))

	// limit is capped
	assert.Equal(t, Page{Page: 1, Limit: 100}, Parse("1", "500"))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Page{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, Page{Page: 3, Limit: 20}.Offset())
}

func TestHasNext(t *testing.T) {
	p := Page{Page: 2, Limit: 10}
	assert.True(t, p.HasNext(21))
	assert.False(t, p.HasNext(20))
	assert.False(t, p.HasNext(0))
}
