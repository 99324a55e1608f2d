//go:build windows

package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"syscall"
	"unsafe"
)

var (
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPeekMessageW       = user32.NewProc("PeekMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
	procGetCurrentThreadID = kernel32.NewProc("GetCurrentThreadId")
)

const (
	wmHotkey   = 0x0312
	wmQuit     = 0x0012
	pmNoRemove = 0x0000

	modAlt      = 0x0001
	modControl  = 0x0002
	modShift    = 0x0004
	modWin      = 0x0008
	modNoRepeat = 0x4000
)

type point struct {
	x int32
	y int32
}

// winMsg mirrors the Win32 MSG struct. Field order and types must match the
// binary layout on both 32-bit and 64-bit Windows.
type winMsg struct {
	hWnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

type loopReady struct {
	threadID uint32
	err      error
}

// WindowsHotkeys implements the Hotkeys interface with RegisterHotKey. All
// bindings are registered on one dedicated message-loop thread; hotkey IDs
// are the 1-based binding indices.
type WindowsHotkeys struct{}

// NewHotkeys creates a new Windows hotkey listener.
func NewHotkeys() Hotkeys {
	return &WindowsHotkeys{}
}

// Listen registers every binding and delivers fired triggers on the returned
// channel until ctx is cancelled.
func (h *WindowsHotkeys) Listen(ctx context.Context, bindings []Binding) (<-chan Trigger, error) {
	if len(bindings) == 0 {
		return nil, errors.New("no hotkey bindings to register")
	}

	events := make(chan Trigger, 16)
	ready := make(chan loopReady, 1)

	go runHotkeyLoop(bindings, events, ready)

	r := <-ready
	if r.err != nil {
		return nil, r.err
	}

	go func() {
		<-ctx.Done()
		if err := postQuit(r.threadID); err != nil {
			slog.Warn("Failed to stop hotkey message loop", "error", err)
		}
	}()

	return events, nil
}

func runHotkeyLoop(bindings []Binding, events chan<- Trigger, ready chan<- loopReady) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	threadID, _, _ := procGetCurrentThreadID.Call()
	if threadID == 0 {
		ready <- loopReady{err: errors.New("GetCurrentThreadId returned 0")}
		return
	}

	// PeekMessageW forces Windows to create this thread's message queue so
	// PostThreadMessageW can deliver WM_QUIT later.
	var qmsg winMsg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&qmsg)), 0, 0, 0, pmNoRemove)

	registered := 0
	for i, b := range bindings {
		if err := registerHotKey(int32(i+1), b.Combo); err != nil {
			unregisterAll(registered)
			ready <- loopReady{err: fmt.Errorf("register hotkey for %s slot %d: %w", b.Trigger.Action, b.Trigger.Slot, err)}
			return
		}
		registered++
	}
	defer unregisterAll(registered)

	ready <- loopReady{threadID: uint32(threadID)}

	for {
		var msg winMsg
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			slog.Warn("GetMessageW failed, hotkey loop exiting", "error", err)
			return
		case 0:
			// WM_QUIT
			return
		}

		if msg.message == wmHotkey {
			id := int(msg.wParam)
			if id >= 1 && id <= len(bindings) {
				select {
				case events <- bindings[id-1].Trigger:
				default:
					slog.Warn("Trigger channel full, dropping hotkey event", "id", id)
				}
			}
		}
	}
}

func registerHotKey(id int32, combo KeyCombo) error {
	mods := uintptr(modNoRepeat)
	if combo.Ctrl {
		mods |= modControl
	}
	if combo.Shift {
		mods |= modShift
	}
	if combo.Alt {
		mods |= modAlt
	}
	if combo.Win {
		mods |= modWin
	}

	res, _, err := procRegisterHotKey.Call(0, uintptr(id), mods, uintptr(combo.Key))
	if res != 0 {
		return nil
	}
	if err == syscall.Errno(0) {
		return errors.New("RegisterHotKey failed")
	}
	return err
}

func unregisterAll(count int) {
	for id := 1; id <= count; id++ {
		procUnregisterHotKey.Call(0, uintptr(id))
	}
}

func postQuit(threadID uint32) error {
	res, _, err := procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0)
	if res != 0 {
		return nil
	}
	if err == syscall.Errno(0) {
		return errors.New("PostThreadMessageW failed")
	}
	return err
}
