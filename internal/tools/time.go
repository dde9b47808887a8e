package tools

import "time"

// timeNow is a package-level var to allow test injection of the clock.
var timeNow = time.Now
