// Package devices is a catalog of memory parts known to work with the
// controller. Parts are plain descriptors; the drivers treat every part the
// same way.
package devices

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sarchlab/memctl/nand"
	"github.com/sarchlab/memctl/sdram"
)

var sdramParts = map[string]sdram.Chip{}
var nandParts = map[string]nand.Chip{}

// RegisterSdram adds an SDRAM part to the catalog. Registering two parts
// under the same name panics.
func RegisterSdram(c sdram.Chip) {
	key := normalize(c.Name())
	if _, dup := sdramParts[key]; dup {
		panic(fmt.Sprintf("SDRAM part %s registered twice", c.Name()))
	}

	sdramParts[key] = c
}

// RegisterNand adds a NAND part to the catalog.
func RegisterNand(c nand.Chip) {
	key := normalize(c.Name())
	if _, dup := nandParts[key]; dup {
		panic(fmt.Sprintf("NAND part %s registered twice", c.Name()))
	}

	nandParts[key] = c
}

// Sdram looks up an SDRAM part by name. Case is ignored.
func Sdram(name string) (sdram.Chip, error) {
	c, ok := sdramParts[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("unknown SDRAM part %q (known: %s)",
			name, strings.Join(SdramNames(), ", "))
	}

	return c, nil
}

// Nand looks up a NAND part by name. Case is ignored.
func Nand(name string) (nand.Chip, error) {
	c, ok := nandParts[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("unknown NAND part %q (known: %s)",
			name, strings.Join(NandNames(), ", "))
	}

	return c, nil
}

// SdramNames lists the SDRAM parts in the catalog.
func SdramNames() []string {
	names := make([]string, 0, len(sdramParts))
	for _, c := range sdramParts {
		names = append(names, c.Name())
	}

	sort.Strings(names)

	return names
}

// NandNames lists the NAND parts in the catalog.
func NandNames() []string {
	names := make([]string, 0, len(nandParts))
	for _, c := range nandParts {
		names = append(names, c.Name())
	}

	sort.Strings(names)

	return names
}

func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func init() {
	for _, c := range []sdram.Chip{
		AS4C16M32MSA6,
		IS42S16400J7,
		IS42S32800G6,
		MT48LC4M32B26,
	} {
		RegisterSdram(c)
	}

	RegisterNand(S34ML08G3)
}
