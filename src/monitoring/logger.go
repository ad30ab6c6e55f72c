//Package monitoring carries the diagnostic logger shared by the engine and the views.
package monitoring

import (
	"log"
	"sync/atomic"
)

//Printf is the shape of a diagnostic logger
type Printf func(format string, v ...interface{})

//current always holds a Printf, the engine goroutines read it while a view swaps it
var current atomic.Value

func init() {
	current.Store(Printf(log.Printf))
}

//Logf writes a diagnostic line through the installed logger
func Logf(format string, v ...interface{}) {
	current.Load().(Printf)(format, v...)
}

//SetLogger installs f and returns the logger it replaces
//a nil f mutes diagnostics, the terminal views use that while they own the screen
func SetLogger(f Printf) (prev Printf) {
	if f == nil {
		f = func(string, ...interface{}) {}
	}
	return current.Swap(f).(Printf)
}
