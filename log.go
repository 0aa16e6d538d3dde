package milter

import (
	"fmt"
	"log"
)

func defaultLogWarning(format string, v ...interface{}) {
	log.Printf(fmt.Sprintf("milter: warning: %s", format), v...)
}

// LogWarning is called when this package wants to surface a warning about a
// wire condition that isn't fatal to the session, such as a tolerated Misc
// message. Warnings can fire even when the caller did everything right,
// because the peer on the other end of the wire did something questionable.
//
// The default implementation writes to the standard [log] package. Callers
// may reassign LogWarning to route these through their own logger, but it
// must never be set to nil.
var LogWarning = defaultLogWarning
