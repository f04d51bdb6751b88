//go:build !linux

package modem

import "time"

type noLineControl struct{}

func openLineControl(string) (lineControl, error) {
	return noLineControl{}, nil
}

func (noLineControl) SetLocal(bool) error {
	return errLineControlUnsupported
}

func (noLineControl) DropDTR(time.Duration) error {
	return errLineControlUnsupported
}

func (noLineControl) Restore() error { return nil }

func (noLineControl) Close() error { return nil }
