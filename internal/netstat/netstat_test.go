package netstat

import (
	"testing"

	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `Name       Mtu   Network       Address            Ipkts Ierrs     Ibytes    Opkts Oerrs     Obytes  Coll
lo0        16384 <Link#1>                         48211     0    9125648    48211     0    9125648     0
lo0        16384 127           localhost          48211     -    9125648    48211     -    9125648     -
lo0        16384 ::1/128     localhost            48211     -    9125648    48211     -    9125648     -
en0        1500  <Link#4>    a4:83:e7:12:34:56  1022456     0  987654321   733120     0  123456789     0
en0        1500  192.168.1   192.168.1.50       1022456     -  987654321   733120     -  123456789     -
awdl0      1484  <Link#8>    6e:11:22:33:44:55      120     0      35840       96     0      28672     0
`

func TestParseNetstatOutput(t *testing.T) {
	counters, err := parseNetstatOutput(sampleOutput)
	require.NoError(t, err)
	require.Len(t, counters, 3, "one entry per link row, protocol rows skipped")

	assert.Equal(t, Counters{
		Interface:   "lo0",
		BytesRecv:   9125648,
		BytesSent:   9125648,
		PacketsRecv: 48211,
		PacketsSent: 48211,
	}, counters[0])

	assert.Equal(t, Counters{
		Interface:   "en0",
		BytesRecv:   987654321,
		BytesSent:   123456789,
		PacketsRecv: 1022456,
		PacketsSent: 733120,
	}, counters[1])

	assert.Equal(t, "awdl0", counters[2].Interface)
}

func TestParseNetstatOutputUntrackedCounter(t *testing.T) {
	const out = `Name  Mtu   Network   Address            Ipkts Ierrs Ibytes Opkts Oerrs Obytes Coll
utun0 1380  <Link#10>                        500     -  64000   400     -  51200     -
`

	counters, err := parseNetstatOutput(out)
	require.NoError(t, err)
	require.Len(t, counters, 1)
	assert.Equal(t, uint64(64000), counters[0].BytesRecv)
	assert.Equal(t, uint64(51200), counters[0].BytesSent)
}

func TestParseNetstatOutputNoLinkRows(t *testing.T) {
	_, err := parseNetstatOutput("Name Mtu Network Address\n")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrParseFailed))
}

func TestParseNetstatOutputMalformedCounter(t *testing.T) {
	const out = `Name Mtu  Network  Address           Ipkts Ierrs Ibytes Opkts Oerrs Obytes Coll
en0  1500 <Link#4> a4:83:e7:00:00:00   abc     0  64000   400     0  51200     0
`

	_, err := parseNetstatOutput(out)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrParseFailed))
}

func TestInterfacesFallsBackToCommand(t *testing.T) {
	want := []Counters{{Interface: "en0", BytesRecv: 1}}

	got, err := interfaces(
		func() ([]Counters, error) {
			return nil, errors.New().New(ErrCountersFailed)
		},
		func() ([]Counters, error) { return want, nil },
	)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInterfacesBothPathsFail(t *testing.T) {
	_, err := interfaces(
		func() ([]Counters, error) { return nil, errors.New().New(ErrCountersFailed) },
		func() ([]Counters, error) { return nil, errors.New().New(ErrParseFailed) },
	)

	require.Error(t, err)

	var exhausted *monitor.FallbackExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.True(t, errors.HasCode(exhausted.Primary, ErrCountersFailed))
	assert.True(t, errors.HasCode(exhausted.Secondary, ErrParseFailed))
}
