package vm

import "errors"

// ErrParse is the sentinel wrapped by every program-text syntax error: an
// unknown op name, a missing or malformed operand, or an unterminated
// comment quote.
var ErrParse = errors.New("vm: parse error")
