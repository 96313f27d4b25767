//go:build linux

package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest  = "org.freedesktop.Notifications"
	notifyPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyCall  = "org.freedesktop.Notifications.Notify"
	noReplaceID = uint32(0)
)

// Notify sends a desktop notification using the Freedesktop.org notification spec.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(notifyDest, notifyPath)
	call := obj.Call(notifyCall, 0,
		AppName, noReplaceID, opts.IconPath, title, body, []string{}, map[string]dbus.Variant{},
		int32(opts.timeout().Milliseconds()))
	return call.Err
}
