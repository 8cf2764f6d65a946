// Package hotkey is a thin wrapper around the Windows RegisterHotKey
// API: register global key bindings, get a callback on keydown. One
// message loop serves every binding; no keyup tracking, no polling.

//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"
)

var user32 = syscall.NewLazyDLL("user32.dll")

var (
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
	procGetMessageW      = user32.NewProc("GetMessageW")
)

// Modifier flags for RegisterHotKey.
const (
	ModAlt   = 0x1
	ModCtrl  = 0x2
	ModShift = 0x4
	ModWin   = 0x8
)

const wmHotkey = 0x0312

// Binding is one global hotkey: a modifier mask plus a virtual-key
// code.
type Binding struct {
	Mod int
	VK  int
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      [2]int32
}

// Listen registers every binding as a global hotkey and runs fn(id)
// on the calling goroutine's OS thread whenever one fires, where id
// is the index into bindings.
//
// Listen blocks forever (it runs a Windows message loop); call it
// from a dedicated goroutine. The OS thread is locked automatically.
// If some registrations fail the rest still work; the first failure
// is returned after the loop ends.
func Listen(bindings []Binding, fn func(id int)) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var firstErr error
	for i, b := range bindings {
		ret, _, err := procRegisterHotKey.Call(0, uintptr(i+1), uintptr(b.Mod), uintptr(b.VK))
		if ret == 0 && firstErr == nil {
			firstErr = fmt.Errorf("RegisterHotKey(mod=0x%x, vk=0x%x): %w", b.Mod, b.VK, err)
		}
	}

	var m msg
	for {
		// GetMessageW blocks until a message is available. Returns 0 on WM_QUIT, -1 on error.
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
		if m.message == wmHotkey {
			id := int(m.wParam) - 1 // registered with id = index+1
			if id >= 0 && id < len(bindings) {
				fn(id)
			}
		}
	}

	for i := range bindings {
		procUnregisterHotKey.Call(0, uintptr(i+1))
	}
	return firstErr
}
