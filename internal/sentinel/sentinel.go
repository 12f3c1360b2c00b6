package sentinel

// Compile-time check that Error satisfies the error interface.
var _ error = Error("")

// Error is a sentinel error backed by a string constant. Because the type is
// comparable, errors.Is matches it through wrapped chains with the default
// == comparison, and because it is a string type it can be declared const:
//
//	const ErrNilContext = sentinel.Error("execkit: context must not be nil")
type Error string

// Error returns the message.
func (e Error) Error() string {
	return string(e)
}
