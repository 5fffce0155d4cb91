// ABOUTME: Operation result holding either data or an error, never both
// ABOUTME: Every asynchronous repository entry point resolves to one of these

package remote

// Result carries the outcome of an asynchronous operation.
// Setting data clears the error and setting an error clears the data.
type Result[T any] struct {
	data T
	err  error
}

// OK returns a successful result.
func OK[T any](data T) *Result[T] {
	r := &Result[T]{}
	r.SetData(data)
	return r
}

// Fail returns a failed result.
func Fail[T any](err error) *Result[T] {
	r := &Result[T]{}
	r.SetError(err)
	return r
}

// SetData stores data and clears any error.
func (r *Result[T]) SetData(data T) {
	r.data = data
	r.err = nil
}

// SetError stores err and clears any data.
func (r *Result[T]) SetError(err error) {
	var zero T
	r.err = err
	r.data = zero
}

// Data returns the stored data (zero value on failure).
func (r *Result[T]) Data() T {
	return r.data
}

// Err returns the stored error.
func (r *Result[T]) Err() error {
	return r.err
}

// OK reports whether the operation succeeded.
func (r *Result[T]) OK() bool {
	return r.err == nil
}
