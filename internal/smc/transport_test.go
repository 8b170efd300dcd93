package smc_test

import (
	"testing"

	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/smc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	infos      map[smc.Key]smc.KeyInfo
	values     map[smc.Key]smc.Value
	infoErr    error
	readErr    error
	closeCount int
}

func (c *fakeConn) KeyInfo(key smc.Key) (smc.KeyInfo, error) {
	if c.infoErr != nil {
		return smc.KeyInfo{}, c.infoErr
	}
	info, ok := c.infos[key]
	if !ok {
		return smc.KeyInfo{}, errors.New().WithData(smc.ErrKeyInfoFailed, smc.OSCodeContext{Key: key.String()})
	}
	return info, nil
}

func (c *fakeConn) ReadBytes(key smc.Key, _ smc.KeyInfo) (smc.Value, error) {
	if c.readErr != nil {
		return smc.Value{}, c.readErr
	}
	return c.values[key], nil
}

func (c *fakeConn) Close() error {
	c.closeCount++
	return nil
}

type fakeDialer struct {
	conn    *fakeConn
	dialErr error
	dials   int
}

func (d *fakeDialer) Dial() (smc.Conn, error) {
	d.dials++
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	return d.conn, nil
}

func sp78Conn(key smc.Key, intPart, fracPart byte) *fakeConn {
	v := smc.Value{Size: 2, Type: smc.TypeSP78}
	v.Raw[0] = intPart
	v.Raw[1] = fracPart
	return &fakeConn{
		infos:  map[smc.Key]smc.KeyInfo{key: {Size: 2, Type: smc.TypeSP78}},
		values: map[smc.Key]smc.Value{key: v},
	}
}

func TestTransportReadsAndCloses(t *testing.T) {
	conn := sp78Conn(smc.KeyCPUTemp, 45, 128)
	dialer := &fakeDialer{conn: conn}
	transport := smc.NewTransportWith(dialer)

	got, err := transport.Read(smc.KeyCPUTemp)
	require.NoError(t, err)
	assert.InDelta(t, 45.5, got, 1e-9)
	assert.Equal(t, 1, conn.closeCount)
}

func TestTransportOpensFreshConnectionPerRead(t *testing.T) {
	conn := sp78Conn(smc.KeyCPUTemp, 40, 0)
	dialer := &fakeDialer{conn: conn}
	transport := smc.NewTransportWith(dialer)

	for i := 0; i < 3; i++ {
		_, err := transport.Read(smc.KeyCPUTemp)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, dialer.dials)
	assert.Equal(t, 3, conn.closeCount)
}

func TestTransportClosesOnKeyInfoFailure(t *testing.T) {
	conn := &fakeConn{
		infoErr: errors.New().WithData(smc.ErrKeyInfoFailed, smc.OSCodeContext{Key: "TC0P", OSCode: -536870906}),
	}
	transport := smc.NewTransportWith(&fakeDialer{conn: conn})

	_, err := transport.Read(smc.KeyCPUTemp)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, smc.ErrKeyInfoFailed))
	assert.Equal(t, 1, conn.closeCount, "connection must close on the failure path")
}

func TestTransportClosesOnReadFailure(t *testing.T) {
	conn := sp78Conn(smc.KeyCPUTemp, 40, 0)
	conn.readErr = errors.New().WithData(smc.ErrKeyReadFailed, smc.OSCodeContext{Key: "TC0P", OSCode: -1})
	transport := smc.NewTransportWith(&fakeDialer{conn: conn})

	_, err := transport.Read(smc.KeyCPUTemp)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, smc.ErrKeyReadFailed))
	assert.Equal(t, 1, conn.closeCount)
}

func TestTransportDialFailure(t *testing.T) {
	dialer := &fakeDialer{dialErr: errors.New().WithData(smc.ErrServiceNotFound, "AppleSMC")}
	transport := smc.NewTransportWith(dialer)

	_, err := transport.Read(smc.KeyCPUTemp)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, smc.ErrServiceNotFound))
}
