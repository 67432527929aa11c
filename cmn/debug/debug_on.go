//go:build debug

package debug

import "fmt"

// Assert panics with msg (if given) when cond is false. Compiled only into
// `-tags debug` builds; see debug_off.go for the production no-op.
func Assert(cond bool, msg ...any) {
	if !cond {
		panic(fmt.Sprint(msg...))
	}
}

func Assertf(cond bool, format string, a ...any) {
	if !cond {
		panic(fmt.Sprintf(format, a...))
	}
}

func AssertNoErr(err error) {
	if err != nil {
		panic(err)
	}
}
