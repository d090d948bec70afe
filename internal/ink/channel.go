package ink

import (
	"fmt"
	"strings"
)

// Channel identifies one process-colour ink. The numeric values are the
// order in which the PRN body interleaves rows.
type Channel int

const (
	Yellow Channel = iota
	Magenta
	Cyan
	Black
)

// Count is the number of ink channels the engine expects.
const Count = 4

// Order lists the channels in container order.
var Order = [Count]Channel{Yellow, Magenta, Cyan, Black}

// String returns the one-letter ink name.
func (c Channel) String() string {
	switch c {
	case Yellow:
		return "Y"
	case Magenta:
		return "M"
	case Cyan:
		return "C"
	case Black:
		return "K"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// Name returns the full ink name.
func (c Channel) Name() string {
	switch c {
	case Yellow:
		return "yellow"
	case Magenta:
		return "magenta"
	case Cyan:
		return "cyan"
	case Black:
		return "black"
	default:
		return c.String()
	}
}

// ParseChannel accepts a one-letter or full ink name, case-insensitively.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(s) {
	case "y", "yellow":
		return Yellow, nil
	case "m", "magenta":
		return Magenta, nil
	case "c", "cyan":
		return Cyan, nil
	case "k", "black":
		return Black, nil
	default:
		return 0, fmt.Errorf("unknown ink channel: %q", s)
	}
}
