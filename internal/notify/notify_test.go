package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDesktopNotify(t *testing.T) {
	var gotTitle, gotMsg string

	d := &Desktop{
		appDir: "tally",
		send: func(title, message, _ string) error {
			gotTitle, gotMsg = title, message
			return nil
		},
	}

	assert.NoError(t, d.Notify("Goal completed", "学习 golang"))
	assert.Equal(t, "Goal completed", gotTitle)
	assert.Equal(t, "学习 golang", gotMsg)
}

func TestDesktopNotifyError(t *testing.T) {
	boom := errors.New("no dbus")

	d := &Desktop{
		appDir: "tally",
		send: func(_, _, _ string) error {
			return boom
		},
	}

	assert.ErrorIs(t, d.Notify("t", "m"), boom)
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	assert.NoError(t, n.Notify("t", "m"))
}
