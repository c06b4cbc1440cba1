// +build logless

package onnxlog

// Log is a no-op logger used when the binary is built with the logless tag.
var Log = EmptyLog{}

// EmptyLog implements the subset of zerolog's fluent API this package uses,
// discarding everything.
type EmptyLog struct{}

func (l EmptyLog) Debug() EmptyLog { return l }
func (l EmptyLog) Error() EmptyLog { return l }
func (l EmptyLog) Warn() EmptyLog  { return l }
func (l EmptyLog) Info() EmptyLog  { return l }

func (l EmptyLog) Msg(string) EmptyLog { return l }
func (l EmptyLog) Err(error) EmptyLog   { return l }

func (l EmptyLog) Int(string, int) EmptyLog    { return l }
func (l EmptyLog) Str(string, string) EmptyLog { return l }
