package milter

import "golang.org/x/net/idna"

// ConnectFamily discriminates the address union carried by a Connect event.
type ConnectFamily byte

const (
	ConnectUnknown ConnectFamily = 'U' // SMFIA_UNKNOWN: no address follows
	ConnectInet    ConnectFamily = '4' // SMFIA_INET
	ConnectInet6   ConnectFamily = '6' // SMFIA_INET6
	ConnectUnix    ConnectFamily = 'L' // SMFIA_UNIX
)

func (f ConnectFamily) String() string {
	switch f {
	case ConnectUnknown:
		return "unknown"
	case ConnectInet:
		return "inet"
	case ConnectInet6:
		return "inet6"
	case ConnectUnix:
		return "unix"
	default:
		return "invalid"
	}
}

// ToASCIIHostname normalizes an internationalized hostname to its
// ASCII/punycode form, suitable for the Hostname field of a Connect value
// built for encoding. MTAs that emit Connect events for internationalized
// clients typically already send ASCII, but a filter constructing a
// synthetic Connect (e.g. in a test fixture or a protocol bridge) may need
// this.
func ToASCIIHostname(hostname string) (string, error) {
	return idna.Lookup.ToASCII(hostname)
}
