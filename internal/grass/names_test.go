package grass

import (
	"errors"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
)

func TestTempName(t *testing.T) {
	stubs := gostub.StubFunc(&hostname, "node-1.example.org", nil)
	defer stubs.Reset()
	stubs.StubFunc(&getpid, 4242)

	assert.Equal(t, "tmp_blocks_node_1_example_org_4242", TempName("tmp_blocks"))
	assert.Equal(t, "tmp_selection_node_1_example_org_4242", TempName("tmp_selection"))
}

func TestTempName_HostnameError(t *testing.T) {
	stubs := gostub.StubFunc(&hostname, "", errors.New("no hostname"))
	defer stubs.Reset()
	stubs.StubFunc(&getpid, 7)

	assert.Equal(t, "tmp_blocks_localhost_7", TempName("tmp_blocks"))
}

func TestTempName_DistinctPerProcess(t *testing.T) {
	stubs := gostub.StubFunc(&hostname, "node", nil)
	defer stubs.Reset()

	stubs.StubFunc(&getpid, 1)
	first := TempName("tmp_blocks")
	stubs.StubFunc(&getpid, 2)
	second := TempName("tmp_blocks")

	assert.NotEqual(t, first, second)
}

func TestLegalize(t *testing.T) {
	assert.Equal(t, "abc_123", legalize("abc-123"))
	assert.Equal(t, "n_d", legalize("nöd"))
}
