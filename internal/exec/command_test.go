package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var c Command
		assert.True(t, c.IsZero())
		assert.False(t, c.IsArgv())
	})

	t.Run("shell form", func(t *testing.T) {
		c := Shell("echo hi | wc -l")
		assert.False(t, c.IsZero())
		assert.False(t, c.IsArgv())
		assert.Equal(t, "echo hi | wc -l", c.String())
		assert.Nil(t, c.Args())
	})

	t.Run("argv form", func(t *testing.T) {
		c := Argv("echo", "hi")
		assert.True(t, c.IsArgv())
		assert.Equal(t, []string{"echo", "hi"}, c.Args())
		assert.Equal(t, "echo hi", c.String())
	})

	t.Run("argv display quotes unsafe elements", func(t *testing.T) {
		c := Argv("grep", "a b", "$HOME")
		assert.Equal(t, `grep 'a b' '$HOME'`, c.String())
	})

	t.Run("args returns a copy", func(t *testing.T) {
		c := Argv("echo", "hi")
		args := c.Args()
		args[0] = "changed"
		assert.Equal(t, "echo hi", c.String())
	})
}
