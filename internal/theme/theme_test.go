package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Night, Parse("night"))
	assert.Equal(t, Night, Parse(" NIGHT "))
	assert.Equal(t, Day, Parse("day"))
	assert.Equal(t, Day, Parse("dusk"))
	assert.Equal(t, Day, Parse(""))
}

func TestPreferred(t *testing.T) {
	assert.Equal(t, Night, Preferred(`"dark"`))
	assert.Equal(t, Night, Preferred("dark"))
	assert.Equal(t, Day, Preferred("light"))
	assert.Equal(t, Day, Preferred(""))
}

func TestSchemesAreInverse(t *testing.T) {
	day, night := Day.Scheme(), Night.Scheme()
	assert.Equal(t, "10, 10, 20", day.Dark)
	assert.Equal(t, "255, 255, 255", day.Light)
	assert.Equal(t, day.Dark, night.Light)
	assert.Equal(t, day.Light, night.Dark)
}
