package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.bug.st/serial/enumerator"
)

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	const byID = "/dev/serial/by-id/usb-Silicon_Labs_CP2102_USB_to_UART_Bridge_IC-7300_02012345-if00-port0"

	tests := []struct {
		name    string
		device  string
		ignored []string
		want    bool
	}{
		{name: "NothingIgnored", device: "/dev/ttyUSB0"},
		{name: "NoDevice", device: "", ignored: []string{"/dev/ttyUSB0"}},
		{name: "SameDevice", device: "/dev/ttyUSB0", ignored: []string{"/dev/ttyUSB0"}, want: true},
		{name: "COMPort", device: "COM3", ignored: []string{"COM3"}, want: true},
		{name: "COMPortLowerCase", device: "com3", ignored: []string{"COM3"}, want: true},
		{name: "UpperCasePath", device: "/dev/ttyUSB0", ignored: []string{"/DEV/TTYUSB0"}, want: true},
		{name: "OtherDevice", device: "/dev/ttyUSB1", ignored: []string{"/dev/ttyUSB0"}},
		{name: "OneOfMany", device: "/dev/ttyACM0", ignored: []string{"/dev/ttyUSB0", "/dev/ttyACM0", "COM3"}, want: true},
		{name: "NoneOfMany", device: "/dev/ttyACM1", ignored: []string{"/dev/ttyUSB0", "/dev/ttyACM0", "COM3"}},
		{name: "ByIDLink", device: byID, ignored: []string{byID}, want: true},
		{name: "MacCalloutDevice", device: "/dev/cu.SLAB_USBtoUART", ignored: []string{"/dev/cu.slab_usbtouart"}, want: true},
		{name: "UncleanPath", device: "/dev/../dev/ttyUSB0", ignored: []string{"/dev/ttyUSB0"}, want: true},
		{name: "BlankEntries", device: "/dev/ttyUSB0", ignored: []string{"", "/dev/ttyUSB0"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsPathIgnored(tt.device, tt.ignored))
		})
	}
}

func TestFilterPortsHonoursIgnorePaths(t *testing.T) {
	t.Parallel()

	ports := []*enumerator.PortDetails{
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "10C4", PID: "EA60"},
		{Name: "/dev/ttyUSB1", IsUSB: true, VID: "0403", PID: "6001"},
	}
	opts := DefaultOptions()
	assert.Nil(t, opts.IgnorePaths)

	opts.IgnorePaths = []string{"/dev/ttyUSB0"}
	devices := filterPorts(ports, opts)
	if assert.Len(t, devices, 1) {
		assert.Equal(t, "/dev/ttyUSB1", devices[0].Path)
	}
}
