package gamebridge

import "errors"

var (
	// ErrBridgeActive is returned by New while another Bridge is still open.
	ErrBridgeActive = errors.New("gamebridge: a bridge is already active in this process")
	// ErrAlreadyHooked is returned when a translator bound to one widget is asked to bind another.
	ErrAlreadyHooked = errors.New("gamebridge: translator already hooked to a different widget")
	// ErrUnhooked is returned when hooking a translator that has been unhooked.
	ErrUnhooked = errors.New("gamebridge: translator has been unhooked")
	// ErrUnmappedKey reports a host key with no equivalent key code.
	ErrUnmappedKey = errors.New("gamebridge: unmapped key")
	// ErrCapturerClosed is returned by capture requests after Close.
	ErrCapturerClosed = errors.New("gamebridge: capturer closed")
	// ErrNoCaptureDevice is returned for capture sources naming a hardware device.
	ErrNoCaptureDevice = errors.New("gamebridge: no capture device available")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("gamebridge: invalid config")
)
