package process

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIncludesSelf(t *testing.T) {
	infos, err := List()
	require.NoError(t, err)
	require.NotEmpty(t, infos)

	self := int32(os.Getpid())
	found := false
	for _, info := range infos {
		if info.PID == self {
			found = true
			assert.NotEmpty(t, info.Name)
			break
		}
	}
	assert.True(t, found, "own process must appear in the listing")
}

func TestListSortedByCPUDescending(t *testing.T) {
	infos, err := List()
	require.NoError(t, err)

	for i := 1; i < len(infos); i++ {
		assert.GreaterOrEqual(t, infos[i-1].CPUPercent, infos[i].CPUPercent)
	}
}

func TestPerPidListMatchesBulk(t *testing.T) {
	bulk, err := bulkList()
	require.NoError(t, err)

	perPid, err := perPidList()
	require.NoError(t, err)

	// Processes churn between the two walks; both paths must still agree on
	// roughly the same population.
	assert.InDelta(t, len(bulk), len(perPid), 25)
}
