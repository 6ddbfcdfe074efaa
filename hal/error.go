package hal

import "errors"

// Common HAL errors representing unrecoverable GPU states.
var (
	// ErrBackendNotFound indicates the requested backend is not registered.
	ErrBackendNotFound = errors.New("hal: backend not found")

	// ErrDeviceOutOfMemory indicates the GPU has exhausted its memory.
	// This is unrecoverable - the caller should release resources or
	// gracefully terminate.
	ErrDeviceOutOfMemory = errors.New("hal: device out of memory")

	// ErrDeviceLost indicates the GPU device has been lost: a driver
	// crash or reset, hardware disconnection, or a driver timeout. The
	// device cannot be recovered and must be recreated.
	ErrDeviceLost = errors.New("hal: device lost")

	// ErrSwapchainLost indicates the presentation target has been
	// destroyed, typically because the window was closed. A new
	// Swapchain must be created.
	ErrSwapchainLost = errors.New("hal: swapchain lost")

	// ErrSwapchainOutdated indicates the swapchain configuration is
	// stale (window resized, display mode changed). The caller must
	// recreate the Swapchain.
	ErrSwapchainOutdated = errors.New("hal: swapchain outdated")

	// ErrTimeout indicates a wait operation timed out.
	ErrTimeout = errors.New("hal: timeout")

	// ErrZeroArea indicates a swapchain extent of zero width or height.
	// This commonly happens while a window is minimized.
	ErrZeroArea = errors.New("hal: swapchain width and height must be non-zero")

	// ErrDriverBug indicates the backend returned an invalid or
	// unexpected result that violates its own API contract, rather than
	// an application usage error.
	ErrDriverBug = errors.New("hal: driver bug detected")
)
