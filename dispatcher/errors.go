package dispatcher

import "errors"

// ErrInvalidTimeConfiguration is returned when the current dispatch time
// precedes the recorded last_dispatch (§4.7 step 5).
var ErrInvalidTimeConfiguration = errors.New("dispatcher: current dispatch precedes last dispatch")
