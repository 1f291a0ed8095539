package grass

import (
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Stubbed in tests.
var (
	hostname = os.Hostname
	getpid   = os.Getpid
)

// TempName qualifies prefix with the node name and process id, e.g.
// "tmp_blocks_node1_4242", so concurrent runs never share a name.
// Characters that are not letters or digits in the node name become "_".
func TempName(prefix string) string {
	node, err := hostname()
	if err != nil || node == "" {
		node = "localhost"
	}
	return fmt.Sprintf("%s_%s_%d", prefix, legalize(node), getpid())
}

func legalize(name string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, name)
}
