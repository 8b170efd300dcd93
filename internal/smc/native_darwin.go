//go:build darwin && cgo

package smc

/*
#cgo LDFLAGS: -framework IOKit
#include <stdint.h>
#include <string.h>
#include <IOKit/IOKitLib.h>

typedef struct {
	unsigned char  major;
	unsigned char  minor;
	unsigned char  build;
	unsigned char  reserved[1];
	unsigned short release;
} SMCKeyData_vers_t;

typedef struct {
	unsigned short version;
	unsigned short length;
	unsigned int   cpuPLimit;
	unsigned int   gpuPLimit;
	unsigned int   memPLimit;
} SMCKeyData_pLimitData_t;

typedef struct {
	unsigned int  dataSize;
	unsigned int  dataType;
	unsigned char dataAttributes;
} SMCKeyData_keyInfo_t;

typedef unsigned char SMCBytes_t[32];

typedef struct {
	unsigned int            key;
	SMCKeyData_vers_t       vers;
	SMCKeyData_pLimitData_t pLimitData;
	SMCKeyData_keyInfo_t    keyInfo;
	char                    result;
	char                    status;
	char                    data8;
	unsigned int            data32;
	SMCBytes_t              bytes;
} SMCKeyData_t;

static kern_return_t smcCall(io_connect_t conn, SMCKeyData_t *in, SMCKeyData_t *out) {
	size_t outSize = sizeof(SMCKeyData_t);
	return IOConnectCallStructMethod(conn, 2, in, sizeof(SMCKeyData_t), out, &outSize);
}

static io_service_t smcMatchService(void) {
	return IOServiceGetMatchingService(kIOMasterPortDefault, IOServiceMatching("AppleSMC"));
}
*/
import "C"

import (
	"codeberg.org/tessen/smcmon/internal/errors"
)

const (
	cmdReadBytes   = 5
	cmdReadKeyInfo = 9
)

// systemDialer opens one connection to the AppleSMC user client per Dial.
type systemDialer struct{}

func (systemDialer) Dial() (Conn, error) {
	errFactory := errors.New()

	service := C.smcMatchService()
	if service == 0 {
		return nil, errFactory.WithData(ErrServiceNotFound, "AppleSMC")
	}
	defer C.IOObjectRelease(service)

	var conn C.io_connect_t
	kr := C.IOServiceOpen(service, C.mach_task_self_, 0, &conn)
	if kr != C.KERN_SUCCESS {
		return nil, errFactory.WithData(ErrConnectionFailed, OSCodeContext{OSCode: int32(kr)})
	}

	return &smcConn{conn: conn}, nil
}

type smcConn struct {
	conn C.io_connect_t
}

func (c *smcConn) KeyInfo(key Key) (KeyInfo, error) {
	errFactory := errors.New()

	var in, out C.SMCKeyData_t
	in.key = C.uint(key.Pack())
	in.data8 = cmdReadKeyInfo

	if kr := C.smcCall(c.conn, &in, &out); kr != C.KERN_SUCCESS {
		return KeyInfo{}, errFactory.WithData(ErrKeyInfoFailed, OSCodeContext{
			Key:    key.String(),
			OSCode: int32(kr),
		})
	}

	info := KeyInfo{
		Size:       uint32(out.keyInfo.dataSize),
		Type:       TypeTag(UnpackKey(uint32(out.keyInfo.dataType))),
		Attributes: uint8(out.keyInfo.dataAttributes),
	}
	if info.Size > MaxValueSize {
		info.Size = MaxValueSize
	}

	return info, nil
}

func (c *smcConn) ReadBytes(key Key, info KeyInfo) (Value, error) {
	errFactory := errors.New()

	var in, out C.SMCKeyData_t
	in.key = C.uint(key.Pack())
	in.keyInfo.dataSize = C.uint(info.Size)
	in.data8 = cmdReadBytes

	if kr := C.smcCall(c.conn, &in, &out); kr != C.KERN_SUCCESS {
		return Value{}, errFactory.WithData(ErrKeyReadFailed, OSCodeContext{
			Key:    key.String(),
			OSCode: int32(kr),
		})
	}

	value := Value{
		Size:       info.Size,
		Type:       info.Type,
		Attributes: info.Attributes,
	}
	for i := uint32(0); i < info.Size; i++ {
		value.Raw[i] = byte(out.bytes[i])
	}

	return value, nil
}

func (c *smcConn) Close() error {
	errFactory := errors.New()

	if kr := C.IOServiceClose(c.conn); kr != C.KERN_SUCCESS {
		return errFactory.WithData(ErrCloseFailed, OSCodeContext{OSCode: int32(kr)})
	}

	return nil
}
