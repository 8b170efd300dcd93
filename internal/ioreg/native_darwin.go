//go:build darwin && cgo

package ioreg

/*
#cgo LDFLAGS: -framework IOKit -framework CoreFoundation
#include <stdlib.h>
#include <CoreFoundation/CoreFoundation.h>
#include <IOKit/IOKitLib.h>

static io_service_t matchService(const char *name) {
	return IOServiceGetMatchingService(kIOMasterPortDefault, IOServiceMatching(name));
}
*/
import "C"

import (
	"unsafe"

	"codeberg.org/tessen/smcmon/internal/errors"
)

type systemOps struct{}

func (systemOps) MatchingService(name string) (uint32, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	service := C.matchService(cname)
	return uint32(service), nil
}

func (systemOps) Properties(id uint32) (map[string]any, error) {
	errFactory := errors.New()

	var props C.CFMutableDictionaryRef
	kr := C.IORegistryEntryCreateCFProperties(C.io_registry_entry_t(id), &props, C.kCFAllocatorDefault, 0)
	if kr != C.KERN_SUCCESS {
		return nil, errFactory.WithData(ErrPropertyFailed, PropertyContext{OSCode: int32(kr)})
	}
	defer C.CFRelease(C.CFTypeRef(props))

	return dictionaryToMap(C.CFDictionaryRef(props)), nil
}

func (systemOps) Parent(id uint32) (uint32, error) {
	errFactory := errors.New()

	var parent C.io_registry_entry_t
	plane := C.CString("IOService")
	defer C.free(unsafe.Pointer(plane))

	kr := C.IORegistryEntryGetParentEntry(C.io_registry_entry_t(id), plane, &parent)
	if kr != C.KERN_SUCCESS {
		return 0, errFactory.WithData(ErrParentFailed, PropertyContext{OSCode: int32(kr)})
	}

	return uint32(parent), nil
}

func (systemOps) Release(id uint32) {
	C.IOObjectRelease(C.io_object_t(id))
}

// dictionaryToMap copies the top level of a CFDictionary into Go values.
// Strings, numbers, booleans and raw data are converted; nested
// dictionaries and arrays are skipped since no consumer reads them.
func dictionaryToMap(dict C.CFDictionaryRef) map[string]any {
	count := int(C.CFDictionaryGetCount(dict))
	out := make(map[string]any, count)
	if count == 0 {
		return out
	}

	keys := make([]unsafe.Pointer, count)
	values := make([]unsafe.Pointer, count)
	C.CFDictionaryGetKeysAndValues(dict, &keys[0], &values[0])

	for i := 0; i < count; i++ {
		key, ok := cfStringToGo(C.CFStringRef(keys[i]))
		if !ok {
			continue
		}
		if v, ok := cfValueToGo(C.CFTypeRef(values[i])); ok {
			out[key] = v
		}
	}

	return out
}

func cfValueToGo(v C.CFTypeRef) (any, bool) {
	switch C.CFGetTypeID(v) {
	case C.CFStringGetTypeID():
		return cfStringToGoAny(C.CFStringRef(v))
	case C.CFNumberGetTypeID():
		return cfNumberToGo(C.CFNumberRef(v))
	case C.CFBooleanGetTypeID():
		return C.CFBooleanGetValue(C.CFBooleanRef(v)) != 0, true
	case C.CFDataGetTypeID():
		return cfDataToGo(C.CFDataRef(v)), true
	default:
		return nil, false
	}
}

func cfStringToGoAny(s C.CFStringRef) (any, bool) {
	str, ok := cfStringToGo(s)
	return str, ok
}

func cfStringToGo(s C.CFStringRef) (string, bool) {
	length := C.CFStringGetLength(s)
	bufSize := C.CFStringGetMaximumSizeForEncoding(length, C.kCFStringEncodingUTF8) + 1
	buf := make([]C.char, bufSize)

	if C.CFStringGetCString(s, &buf[0], bufSize, C.kCFStringEncodingUTF8) == 0 {
		return "", false
	}

	return C.GoString(&buf[0]), true
}

func cfNumberToGo(n C.CFNumberRef) (any, bool) {
	if C.CFNumberIsFloatType(n) != 0 {
		var f C.double
		if C.CFNumberGetValue(n, C.kCFNumberDoubleType, unsafe.Pointer(&f)) == 0 {
			return nil, false
		}
		return float64(f), true
	}

	var i C.longlong
	if C.CFNumberGetValue(n, C.kCFNumberLongLongType, unsafe.Pointer(&i)) == 0 {
		return nil, false
	}
	return int64(i), true
}

func cfDataToGo(d C.CFDataRef) []byte {
	length := int(C.CFDataGetLength(d))
	if length == 0 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(C.CFDataGetBytePtr(d)), C.int(length))
}
