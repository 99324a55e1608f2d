//go:build windows

package platform

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard    = user32.NewProc("OpenClipboard")
	procCloseClipboard   = user32.NewProc("CloseClipboard")
	procEmptyClipboard   = user32.NewProc("EmptyClipboard")
	procGetClipboardData = user32.NewProc("GetClipboardData")
	procSetClipboardData = user32.NewProc("SetClipboardData")
	procGlobalAlloc      = kernel32.NewProc("GlobalAlloc")
	procGlobalLock       = kernel32.NewProc("GlobalLock")
	procGlobalUnlock     = kernel32.NewProc("GlobalUnlock")
)

const (
	cfUnicodeText = 13
	gmemMoveable  = 0x0002

	// The clipboard is a single shared resource; another process may hold it
	// open for a few milliseconds at a time.
	openRetries    = 10
	openRetryDelay = 10 * time.Millisecond
)

// WindowsClipboard implements the Clipboard interface for Windows.
type WindowsClipboard struct{}

// NewClipboard creates a new Windows clipboard instance.
func NewClipboard() Clipboard {
	return &WindowsClipboard{}
}

// Get retrieves Unicode text from the clipboard. An empty string with no
// error means the clipboard holds no text data.
func (c *WindowsClipboard) Get() (string, error) {
	if err := c.open(); err != nil {
		return "", err
	}
	defer c.close()

	h, _, err := procGetClipboardData.Call(cfUnicodeText)
	if h == 0 {
		if err != nil && err != syscall.Errno(0) {
			return "", fmt.Errorf("GetClipboardData failed: %w", err)
		}
		return "", nil
	}

	l, _, err := procGlobalLock.Call(h)
	if l == 0 {
		return "", fmt.Errorf("GlobalLock failed: %w", err)
	}
	defer procGlobalUnlock.Call(h)

	return windows.UTF16PtrToString((*uint16)(unsafe.Pointer(l))), nil
}

// Set replaces the clipboard contents with text.
func (c *WindowsClipboard) Set(text string) error {
	utf16, err := windows.UTF16FromString(text)
	if err != nil {
		return fmt.Errorf("UTF16 conversion failed: %w", err)
	}

	if err := c.open(); err != nil {
		return err
	}
	defer c.close()

	procEmptyClipboard.Call()

	n := len(utf16) * 2 // UTF-16 code units are 2 bytes
	h, _, err := procGlobalAlloc.Call(gmemMoveable, uintptr(n))
	if h == 0 {
		return fmt.Errorf("GlobalAlloc failed: %w", err)
	}

	l, _, err := procGlobalLock.Call(h)
	if l == 0 {
		return fmt.Errorf("GlobalLock failed: %w", err)
	}

	dest := unsafe.Slice((*uint16)(unsafe.Pointer(l)), len(utf16))
	copy(dest, utf16)
	procGlobalUnlock.Call(h)

	// On success the system owns the handle; do not free it.
	r, _, err := procSetClipboardData.Call(cfUnicodeText, h)
	if r == 0 {
		return fmt.Errorf("SetClipboardData failed: %w", err)
	}

	return nil
}

func (c *WindowsClipboard) open() error {
	for i := 0; i < openRetries; i++ {
		r, _, _ := procOpenClipboard.Call(0)
		if r != 0 {
			return nil
		}
		time.Sleep(openRetryDelay)
	}
	return fmt.Errorf("failed to open clipboard after %d retries", openRetries)
}

func (c *WindowsClipboard) close() {
	procCloseClipboard.Call()
}
