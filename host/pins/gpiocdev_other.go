//go:build !linux

package pins

import (
	"context"

	"buttonled/core"
)

// CdevBoard is unavailable off Linux
type CdevBoard struct{}

// OpenCdev always fails off Linux
func OpenCdev(chip string) (*CdevBoard, error) {
	return nil, ErrUnsupported
}

func (*CdevBoard) ConfigureOutput(core.GPIOPin) error { return ErrUnsupported }
func (*CdevBoard) ConfigureInput(core.GPIOPin, core.Pull) error { return ErrUnsupported }
func (*CdevBoard) SetPin(core.GPIOPin, bool) error { return ErrUnsupported }
func (*CdevBoard) GetPin(core.GPIOPin) (bool, error) { return false, ErrUnsupported }
func (*CdevBoard) Close() error { return nil }
func (*CdevBoard) WatchButton(context.Context, core.GPIOPin, string, func()) error {
	return ErrUnsupported
}
