package actuator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"unsafe"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/moutend/go-wca/pkg/wca"
	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW         = user32.NewProc("FindWindowW")
	procShowWindow          = user32.NewProc("ShowWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procIsWindow            = user32.NewProc("IsWindow")
)

// ShowWindow commands
const (
	swMaximize = 3
	swMinimize = 6
	swRestore  = 9
)

// comShared owns every COM object used by the volume and brightness
// setters. It starts on first use and lives for the process.
var (
	comOnce   sync.Once
	comShared *threadWorker
	comErr    error
)

func comThread(runner Runner) (*threadWorker, error) {
	comOnce.Do(func() {
		comShared, comErr = startThreadWorker(runnerTimeout(runner), func() (func(), error) {
			if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
				var oleErr *ole.OleError
				// S_FALSE: already initialized on this thread.
				if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
					return nil, fmt.Errorf("%w: CoInitializeEx: %v", ErrUnsupportedPlatform, err)
				}
			}
			return ole.CoUninitialize, nil
		})
	})
	return comShared, comErr
}

const sFalse = 0x00000001

// windowsVolume sets the default render endpoint's master level through
// Core Audio IAudioEndpointVolume. Levels are decibels within the range
// the endpoint reports.
type windowsVolume struct {
	com      *threadWorker
	endpoint *wca.IAudioEndpointVolume
	minDB    float32
	maxDB    float32
}

func newPlatformVolume(ctx context.Context, runner Runner) (VolumeSetter, error) {
	com, err := comThread(runner)
	if err != nil {
		return nil, err
	}

	v := &windowsVolume{com: com}
	err = com.do(ctx, func() error {
		var enumerator *wca.IMMDeviceEnumerator
		if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &enumerator); err != nil {
			return fmt.Errorf("%w: device enumerator: %v", ErrNoAudioEndpoint, err)
		}
		defer enumerator.Release()

		var device *wca.IMMDevice
		if err := enumerator.GetDefaultAudioEndpoint(wca.ERender, wca.EConsole, &device); err != nil {
			return fmt.Errorf("%w: default render endpoint: %v", ErrNoAudioEndpoint, err)
		}
		defer device.Release()

		var endpoint *wca.IAudioEndpointVolume
		if err := device.Activate(wca.IID_IAudioEndpointVolume, wca.CLSCTX_ALL, nil, &endpoint); err != nil {
			return fmt.Errorf("%w: endpoint volume: %v", ErrNoAudioEndpoint, err)
		}

		var step float32
		if err := endpoint.GetVolumeRange(&v.minDB, &v.maxDB, &step); err != nil {
			endpoint.Release()
			return fmt.Errorf("%w: volume range: %v", ErrNoAudioEndpoint, err)
		}
		v.endpoint = endpoint
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (v *windowsVolume) Range() (float64, float64) {
	return float64(v.minDB), float64(v.maxDB)
}

func (v *windowsVolume) SetVolume(ctx context.Context, level float64) error {
	err := v.com.do(ctx, func() error {
		if err := v.endpoint.SetMasterVolumeLevel(float32(level), nil); err != nil {
			return fmt.Errorf("%w: SetMasterVolumeLevel(%.2f dB): %v", ErrCommandFailed, level, err)
		}
		return nil
	})
	return wrap("set-volume", err)
}

// windowsBrightness calls WmiMonitorBrightnessMethods.WmiSetBrightness on
// every internal panel through the WMI scripting API. Panels are queried
// once; external monitors do not expose the class.
type windowsBrightness struct {
	com    *threadWorker
	panels []*ole.IDispatch
}

func newPlatformBrightness(runner Runner) (BrightnessSetter, error) {
	com, err := comThread(runner)
	if err != nil {
		return nil, err
	}

	b := &windowsBrightness{com: com}
	err = com.do(context.Background(), func() error {
		panels, err := queryBrightnessMethods()
		if err != nil {
			return err
		}
		if len(panels) == 0 {
			return fmt.Errorf("%w: no WmiMonitorBrightnessMethods instance", ErrUnsupported)
		}
		b.panels = panels
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// queryBrightnessMethods must run on the COM thread.
func queryBrightnessMethods() ([]*ole.IDispatch, error) {
	unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return nil, fmt.Errorf("%w: SWbemLocator: %v", ErrUnsupported, err)
	}
	defer unknown.Release()

	locator, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("%w: SWbemLocator: %v", ErrUnsupported, err)
	}
	defer locator.Release()

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer", nil, `root\WMI`)
	if err != nil {
		return nil, fmt.Errorf("%w: connect root\\WMI: %v", ErrUnsupported, err)
	}
	service := serviceRaw.ToIDispatch()
	defer serviceRaw.Clear()

	resultRaw, err := oleutil.CallMethod(service, "ExecQuery", "SELECT * FROM WmiMonitorBrightnessMethods")
	if err != nil {
		return nil, fmt.Errorf("%w: query brightness methods: %v", ErrUnsupported, err)
	}
	result := resultRaw.ToIDispatch()
	defer resultRaw.Clear()

	countVar, err := oleutil.GetProperty(result, "Count")
	if err != nil {
		return nil, fmt.Errorf("%w: count brightness methods: %v", ErrUnsupported, err)
	}
	count := int(countVar.Val)
	countVar.Clear()

	panels := make([]*ole.IDispatch, 0, count)
	for i := 0; i < count; i++ {
		itemRaw, err := oleutil.CallMethod(result, "ItemIndex", i)
		if err != nil {
			for _, p := range panels {
				p.Release()
			}
			return nil, fmt.Errorf("%w: brightness instance %d: %v", ErrUnsupported, i, err)
		}
		// The variant's reference moves to the slice.
		panels = append(panels, itemRaw.ToIDispatch())
	}
	return panels, nil
}

func (b *windowsBrightness) SetBrightness(ctx context.Context, percent int) error {
	err := b.com.do(ctx, func() error {
		for _, panel := range b.panels {
			if _, err := oleutil.CallMethod(panel, "WmiSetBrightness", uint32(1), uint8(percent)); err != nil {
				return fmt.Errorf("%w: WmiSetBrightness(%d): %v", ErrCommandFailed, percent, err)
			}
		}
		return nil
	})
	return wrap("set-brightness", err)
}

// windowsWindows manipulates top-level windows through user32.
type windowsWindows struct{}

func newPlatformWindows(runner Runner) (WindowController, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("%w: user32: %v", ErrUnsupportedPlatform, err)
	}
	return &windowsWindows{}, nil
}

func (w *windowsWindows) Launch(path string) (*os.Process, error) {
	return startProcess(path)
}

func (w *windowsWindows) LookupWindow(ctx context.Context, title string) (WindowHandle, error) {
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return WindowHandle{}, wrap("lookup-window", err)
	}

	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(titlePtr)))
	if hwnd == 0 {
		return WindowHandle{}, wrap("lookup-window", ErrWindowNotFound)
	}
	return WindowHandle{ID: strconv.FormatUint(uint64(hwnd), 16), Title: title}, nil
}

func (w *windowsWindows) Activate(ctx context.Context, h WindowHandle) error {
	hwnd, err := parseHWND(h)
	if err != nil {
		return wrap("activate", err)
	}
	procShowWindow.Call(hwnd, swRestore)
	if r, _, callErr := procSetForegroundWindow.Call(hwnd); r == 0 {
		return wrap("activate", fmt.Errorf("%w: SetForegroundWindow: %v", ErrCommandFailed, callErr))
	}
	return nil
}

func (w *windowsWindows) Minimize(ctx context.Context, h WindowHandle) error {
	return wrap("minimize", showWindow(h, swMinimize))
}

func (w *windowsWindows) Maximize(ctx context.Context, h WindowHandle) error {
	return wrap("maximize", showWindow(h, swMaximize))
}

func showWindow(h WindowHandle, cmd uintptr) error {
	hwnd, err := parseHWND(h)
	if err != nil {
		return err
	}
	// ShowWindow returns the previous visibility, not success; check the handle instead.
	procShowWindow.Call(hwnd, cmd)
	return nil
}

// parseHWND decodes a handle and verifies the window still exists.
func parseHWND(h WindowHandle) (uintptr, error) {
	v, err := strconv.ParseUint(h.ID, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad window handle %q", ErrWindowNotFound, h.ID)
	}
	hwnd := uintptr(v)
	if r, _, _ := procIsWindow.Call(hwnd); r == 0 {
		return 0, fmt.Errorf("%w: handle %s is gone", ErrWindowNotFound, h.ID)
	}
	return hwnd, nil
}
