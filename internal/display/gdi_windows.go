//go:build windows

package display

import (
	"fmt"
	"log"
	"syscall"
	"unsafe"

	"github.com/alex-vit/duskbright/internal/ramp"
)

var (
	modUser32 = syscall.NewLazyDLL("user32.dll")
	modGdi32  = syscall.NewLazyDLL("gdi32.dll")

	procGetDC              = modUser32.NewProc("GetDC")
	procReleaseDC          = modUser32.NewProc("ReleaseDC")
	procGetDeviceGammaRamp = modGdi32.NewProc("GetDeviceGammaRamp")
	procSetDeviceGammaRamp = modGdi32.NewProc("SetDeviceGammaRamp")
)

// GDI drives the primary display's gamma ramp through
// Get/SetDeviceGammaRamp. The screen DC is acquired per call and
// released via defer so every exit path gives the handle back.
type GDI struct{}

func NewGDI() GDI { return GDI{} }

func (GDI) ReadRamp() (ramp.Ramp, error) {
	var r ramp.Ramp
	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		return r, fmt.Errorf("GetDC failed")
	}
	defer procReleaseDC.Call(0, hdc)

	ret, _, err := procGetDeviceGammaRamp.Call(hdc, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return r, fmt.Errorf("GetDeviceGammaRamp: %w", err)
	}
	return r, nil
}

func (GDI) ApplyRamp(r ramp.Ramp) bool {
	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		log.Printf("display: GetDC failed")
		return false
	}
	defer procReleaseDC.Call(0, hdc)

	ret, _, _ := procSetDeviceGammaRamp.Call(hdc, uintptr(unsafe.Pointer(&r)))
	return ret != 0
}
