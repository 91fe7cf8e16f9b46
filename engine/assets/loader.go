package assets

import (
	"encoding/binary"
	"os"

	"github.com/cockroachdb/errors"
)

// Loader reads one kind of asset from disk.
type Loader interface {
	Load(path string) ([]byte, error)
}

const spirvMagic = 0x07230203

// ShaderLoader reads compiled SPIR-V. The bytes are checked for the SPIR-V
// magic number and word alignment; the module itself is opaque.
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading shader %s", path)
	}
	if err := checkSPIRV(data); err != nil {
		return nil, errors.Wrapf(err, "shader %s", path)
	}
	return data, nil
}

func checkSPIRV(data []byte) error {
	if len(data) < 20 || len(data)%4 != 0 {
		return errors.Newf("%d bytes is not a SPIR-V module", len(data))
	}
	if magic := binary.LittleEndian.Uint32(data); magic != spirvMagic {
		return errors.Newf("bad SPIR-V magic 0x%08x", magic)
	}
	return nil
}
