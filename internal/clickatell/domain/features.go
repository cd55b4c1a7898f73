package domain

import (
	"strconv"
	"strings"
)

// Feature is a set of gateway capabilities OR'ed together and sent as the
// req_feat parameter of an outgoing message.
type Feature int

const (
	FeatText     Feature = 1     // Text, set by default
	Feat8Bit     Feature = 2     // 8-bit messaging, set by default
	FeatUDH      Feature = 4     // UDH (binary), set by default
	FeatUCS2     Feature = 8     // UCS2 / unicode, set by default
	FeatAlpha    Feature = 16    // Alphanumeric source address
	FeatNumer    Feature = 32    // Numeric source address
	FeatFlash    Feature = 512   // Flash messaging
	FeatDelivAck Feature = 8192  // Delivery acknowledgments
	FeatConcat   Feature = 16384 // Concatenation, set by default

	// FeatDefault is the feature set the gateway assumes when none is requested.
	FeatDefault = FeatText | Feat8Bit | FeatUDH | FeatUCS2 | FeatConcat
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeatText, "text"},
	{Feat8Bit, "8bit"},
	{FeatUDH, "udh"},
	{FeatUCS2, "ucs2"},
	{FeatAlpha, "alpha"},
	{FeatNumer, "numer"},
	{FeatFlash, "flash"},
	{FeatDelivAck, "delivack"},
	{FeatConcat, "concat"},
}

// Has reports whether every flag of other is set in f.
func (f Feature) Has(other Feature) bool {
	return f&other == other
}

// Param is the decimal form sent to the gateway.
func (f Feature) Param() string {
	return strconv.Itoa(int(f))
}

func (f Feature) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	rest := f
	for _, fn := range featureNames {
		if f.Has(fn.f) {
			parts = append(parts, fn.name)
			rest &^= fn.f
		}
	}
	if rest != 0 {
		parts = append(parts, strconv.Itoa(int(rest)))
	}
	return strings.Join(parts, "|")
}
