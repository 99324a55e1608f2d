//go:build windows

package keyseq

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procSendInput        = user32.NewProc("SendInput")
	procMapVirtualKeyW   = user32.NewProc("MapVirtualKeyW")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
	procGetKeyState      = user32.NewProc("GetKeyState")
)

const (
	inputKeyboard  = 1
	keyeventfKeyup = 0x0002
	mapvkVkToVsc   = 0

	// High bit of the GetKeyState/GetAsyncKeyState result: key is down.
	keyDownBit = 0x8000
)

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type input struct {
	inputType uint32
	ki        keyboardInput
	padding   [8]byte // INPUT is a union; pad to the C struct size
}

// WindowsInjector dispatches key events through SendInput and answers state
// queries from GetAsyncKeyState (physical) and GetKeyState (logical).
type WindowsInjector struct{}

// NewInjector creates the production injector for Windows.
func NewInjector() Injector {
	return &WindowsInjector{}
}

// SendBatch dispatches the whole sequence in a single SendInput call. Scan
// codes are filled in for better compatibility with applications that read
// them instead of virtual keys.
func (inj *WindowsInjector) SendBatch(events []KeyEvent) error {
	if len(events) == 0 {
		return nil
	}

	inputs := make([]input, len(events))
	for i, ev := range events {
		scan, _, _ := procMapVirtualKeyW.Call(uintptr(ev.Key), mapvkVkToVsc)

		var flags uint32
		if ev.Up {
			flags = keyeventfKeyup
		}

		inputs[i] = input{
			inputType: inputKeyboard,
			ki: keyboardInput{
				wVk:     uint16(ev.Key),
				wScan:   uint16(scan),
				dwFlags: flags,
			},
		}
	}

	ret, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if ret != uintptr(len(inputs)) {
		return fmt.Errorf("SendInput inserted %d of %d events: %w", ret, len(inputs), err)
	}

	return nil
}

// IsPhysicallyDown reports hardware key state via GetAsyncKeyState.
func (inj *WindowsInjector) IsPhysicallyDown(key Key) (bool, error) {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(key))
	return uint16(r)&keyDownBit != 0, nil
}

// IsLogicallyDown reports the keyboard table state via GetKeyState, which is
// what synthetic input mutates.
func (inj *WindowsInjector) IsLogicallyDown(key Key) (bool, error) {
	r, _, _ := procGetKeyState.Call(uintptr(key))
	return uint16(r)&keyDownBit != 0, nil
}
