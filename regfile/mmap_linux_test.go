package regfile

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/antongulenko/optinit/regplan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapped(t *testing.T) {
	a := assert.New(t)
	path := filepath.Join(t.TempDir(), "registers")
	content := make([]byte, os.Getpagesize())
	binary.LittleEndian.PutUint32(content[8:], 0xFFFF0000)
	require.NoError(t, os.WriteFile(path, content, 0600))

	regs, err := MapRegisters(path, 0, len(content))
	require.NoError(t, err)

	a.NoError(regplan.Apply(regs,
		regplan.Modify(8, 0x00FF00FF, 0x00120034),
		regplan.Modify(4, 0xF, 0x5),
	))
	val, err := regs.ReadRegister(8)
	a.NoError(err)
	a.Equal(regplan.Word(0xFF120034), val)

	_, err = regs.ReadRegister(2)
	a.EqualError(err, "Unaligned register address 0x02")
	_, err = regs.ReadRegister(regplan.Address(len(content)))
	a.Error(err)

	a.NoError(regs.Close())
	a.NoError(regs.Close())
	_, err = regs.ReadRegister(8)
	a.Error(err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	a.Equal(uint32(0xFF120034), binary.LittleEndian.Uint32(written[8:]))
	a.Equal(uint32(0x5), binary.LittleEndian.Uint32(written[4:]))
}

func TestMappedUnalignedBase(t *testing.T) {
	_, err := MapRegisters(DevMem, 1, 4)
	assert.Error(t, err)
}
