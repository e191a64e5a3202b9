// Package format renders grammars, nullable sets and Earley charts for
// people and for tools.
package format

import (
	"encoding"

	"github.com/dhamidi/earley/earley"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(chart *earley.Chart) error
}
