package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// LightenColor blends a hex color toward white by amount in [0, 1].
// Accepts "#rgb" and "#rrggbb"; anything unparseable is returned unchanged
// so a bad fill degrades visually instead of failing a recompute.
func LightenColor(hex string, amount float64) string {
	if amount <= 0 {
		return hex
	}
	if amount > 1 {
		amount = 1
	}

	r, g, b, ok := parseHexColor(hex)
	if !ok {
		return hex
	}

	lighten := func(c int) int {
		return c + int(float64(255-c)*amount+0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", lighten(r), lighten(g), lighten(b))
}

func parseHexColor(hex string) (r, g, b int, ok bool) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == len(hex) {
		return 0, 0, 0, false
	}

	switch len(s) {
	case 3:
		// "#abc" means "#aabbcc"
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return 0, 0, 0, false
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
