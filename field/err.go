package field

// ErrSpec reports a packed field specifier that cannot be decoded.
type ErrSpec struct {
	Spec uint32
	Err  error
}

func (err *ErrSpec) Error() string {
	return f("field spec 0x%08x: %v", err.Spec, err.Err)
}

func (err *ErrSpec) Unwrap() error {
	return err.Err
}
