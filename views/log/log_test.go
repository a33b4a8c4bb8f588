package log

import (
	"testing"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/stretchr/testify/assert"
)

func TestHeight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, Height(0))
	assert.Equal(t, 3, Height(10))
	assert.Equal(t, 10, Height(30))
	assert.Equal(t, 12, Height(100))
}

func TestRender(t *testing.T) {
	t.Parallel()

	vp := viewport.New(40, 3)
	assert.Contains(t, Render(60, false, "...", vp), "initializing")

	vp.SetContent("one\ntwo")
	out := Render(60, true, "", vp)
	assert.Contains(t, out, "Log")
	assert.Contains(t, out, "two")
}
