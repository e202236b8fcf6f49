//go:build darwin

package mac

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/cespare/xxhash"
	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
	"github.com/labi-le/mammon/pkg/clipboard/eventful"
	"github.com/labi-le/mammon/pkg/mime"
)

var (
	_ eventful.Eventful = &Clipboard{}

	ErrWriteFailed = errors.New("failed to set clipboard content")
)

func init() {
	_, err := purego.Dlopen("/System/Library/Frameworks/AppKit.framework/AppKit", purego.RTLD_GLOBAL|purego.RTLD_LAZY)
	if err != nil {
		panic(fmt.Errorf("mac clipboard: failed to load AppKit: %w", err))
	}
}

const pollInterval = 500 * time.Millisecond

type Clipboard struct{}

func New() *Clipboard {
	return new(Clipboard)
}

// Watch polls the pasteboard change count. Every change reports the image
// (png, then tiff) and the text representation independently.
func (m *Clipboard) Watch(ctx context.Context, update chan<- eventful.Update) error {
	defer close(update)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	clsNSPasteboard := objc.GetClass("NSPasteboard")
	clsNSString := objc.GetClass("NSString")

	selGeneralPasteboard := objc.RegisterName("generalPasteboard")
	selChangeCount := objc.RegisterName("changeCount")
	selStringForType := objc.RegisterName("stringForType:")
	selDataForType := objc.RegisterName("dataForType:")
	selUTF8String := objc.RegisterName("UTF8String")
	selBytes := objc.RegisterName("bytes")
	selLength := objc.RegisterName("length")

	nsTypeText := makeNSString(clsNSString, "public.utf8-plain-text")
	imageTypes := []objc.ID{
		makeNSString(clsNSString, "public.png"),
		makeNSString(clsNSString, "public.tiff"),
	}

	pb := objc.ID(clsNSPasteboard).Send(selGeneralPasteboard)

	lastCount := pb.Send(selChangeCount)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	send := func(t mime.Type, data []byte) bool {
		dataCopy := make([]byte, len(data))
		copy(dataCopy, data)

		select {
		case update <- eventful.Update{MimeType: t, Data: dataCopy, Hash: xxhash.Sum64(dataCopy)}:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			currentCount := pb.Send(selChangeCount)
			if currentCount == lastCount {
				continue
			}
			lastCount = currentCount

			for _, typ := range imageTypes {
				nsData := pb.Send(selDataForType, typ)
				if nsData == 0 {
					continue
				}
				length := nsData.Send(selLength)
				if length == 0 {
					continue
				}

				bytesPtr := nsData.Send(selBytes)
				data := unsafe.Slice((*byte)(unsafe.Pointer(bytesPtr)), int(length))
				if !send(mime.TypeImage, data) {
					return nil
				}
				break
			}

			nsStr := pb.Send(selStringForType, nsTypeText)
			if nsStr == 0 {
				continue
			}
			utf8Ptr := nsStr.Send(selUTF8String)
			if utf8Ptr == 0 {
				continue
			}
			if data := cStringToGoBytes(uintptr(utf8Ptr)); len(data) > 0 {
				if !send(mime.TypeText, data) {
					return nil
				}
			}
		}
	}
}

func (m *Clipboard) Write(t mime.Type, src []byte) (int, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	clsNSPasteboard := objc.GetClass("NSPasteboard")
	clsNSString := objc.GetClass("NSString")
	clsNSData := objc.GetClass("NSData")

	selGeneralPasteboard := objc.RegisterName("generalPasteboard")
	selClearContents := objc.RegisterName("clearContents")
	selSetString := objc.RegisterName("setString:forType:")
	selSetData := objc.RegisterName("setData:forType:")
	selDataWithBytes := objc.RegisterName("dataWithBytes:length:")

	pb := objc.ID(clsNSPasteboard).Send(selGeneralPasteboard)
	pb.Send(selClearContents)

	var ret uintptr

	switch t {
	case mime.TypeImage:
		nsTypePNG := makeNSString(clsNSString, "public.png")

		var bytesPtr unsafe.Pointer
		if len(src) > 0 {
			bytesPtr = unsafe.Pointer(&src[0])
		}
		nsData := objc.ID(clsNSData).Send(selDataWithBytes, uintptr(bytesPtr), uintptr(len(src)))

		ret = uintptr(pb.Send(selSetData, nsData, nsTypePNG))

	default:
		nsStrContent := makeNSString(clsNSString, string(src))
		nsTypeText := makeNSString(clsNSString, "public.utf8-plain-text")

		ret = uintptr(pb.Send(selSetString, nsStrContent, nsTypeText))
	}

	if ret == 0 {
		return 0, ErrWriteFailed
	}

	return len(src), nil
}

func makeNSString(clsNSString objc.Class, str string) objc.ID {
	selStringWithUTF8String := objc.RegisterName("stringWithUTF8String:")
	return objc.ID(clsNSString).Send(selStringWithUTF8String, str)
}

func cStringToGoBytes(ptr uintptr) []byte {
	if ptr == 0 {
		return nil
	}
	var length int
	for {
		if *(*byte)(unsafe.Pointer(ptr + uintptr(length))) == 0 {
			break
		}
		length++
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), length)
}
