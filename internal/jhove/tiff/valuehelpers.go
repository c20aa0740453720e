package tiff

import (
	"strconv"

	"github.com/ostafen/digler/internal/jhove/prop"
)

// AddIntegerProperty builds a labeled property for an enumerated integer
// tag: in interpreted mode (raw == false) it emits the label string keyed
// by value, falling back to "Unknown (N)" when the value has no known
// label; in raw mode it emits the bare integer. Matches IFD.java's
// addIntegerProperty.
func AddIntegerProperty(name string, value int64, labels map[int64]string, raw bool) prop.Property {
	if raw {
		return prop.NewInt64(name, value)
	}
	if label, ok := labels[value]; ok {
		return prop.NewString(name, label)
	}
	return prop.NewString(name, unknownLabel(value))
}

// AddBitmaskProperty builds a property for a bitmask tag: in interpreted
// mode it emits a List of the labels whose bit is set; in raw mode it
// emits the bare integer. A set bit beyond len(labels) is recorded on
// ifd.Errors rather than indexed, since Go would panic on an
// out-of-range labels[i] where Java's identical access throws
// ArrayIndexOutOfBoundsException — matches addBitmaskProperty's shape
// while making the failure mode explicit instead of a runtime panic.
func AddBitmaskProperty(ifd *IFD, name string, value int64, labels []string, raw bool) prop.Property {
	if raw {
		return prop.NewInt64(name, value)
	}
	var set []prop.Property
	for i := 0; i < 64; i++ {
		if value&(1<<uint(i)) == 0 {
			continue
		}
		if i >= len(labels) {
			ifd.Errors = append(ifd.Errors, unknownLabel(int64(i)))
			continue
		}
		set = append(set, prop.NewString(name, labels[i]))
	}
	return prop.NewList(name, set)
}

func unknownLabel(v int64) string {
	return "Unknown (" + strconv.FormatInt(v, 10) + ")"
}
