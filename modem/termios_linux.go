//go:build linux

package modem

import (
	"time"

	"golang.org/x/sys/unix"
)

type termiosControl struct {
	fd    int
	saved *unix.Termios
}

// openLineControl opens a second descriptor on the device. Termios settings
// belong to the tty, so changes made through it apply to the serial port.
func openLineControl(path string) (lineControl, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	saved, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &termiosControl{fd: fd, saved: saved}, nil
}

func (c *termiosControl) SetLocal(local bool) error {
	t, err := unix.IoctlGetTermios(c.fd, unix.TCGETS)
	if err != nil {
		return err
	}
	if local {
		t.Cflag |= unix.CLOCAL
	} else {
		t.Cflag &^= unix.CLOCAL
		t.Cflag |= unix.HUPCL
	}
	return unix.IoctlSetTermios(c.fd, unix.TCSETS, t)
}

func (c *termiosControl) DropDTR(pause time.Duration) error {
	t, err := unix.IoctlGetTermios(c.fd, unix.TCGETS)
	if err != nil {
		return err
	}
	restore := *t

	t.Cflag &^= unix.CBAUD
	t.Cflag |= unix.B0
	t.Ispeed = unix.B0
	t.Ospeed = unix.B0
	if err := unix.IoctlSetTermios(c.fd, unix.TCSETS, t); err != nil {
		return err
	}
	time.Sleep(pause)
	return unix.IoctlSetTermios(c.fd, unix.TCSETS, &restore)
}

func (c *termiosControl) Restore() error {
	return unix.IoctlSetTermios(c.fd, unix.TCSETS, c.saved)
}

func (c *termiosControl) Close() error {
	return unix.Close(c.fd)
}
