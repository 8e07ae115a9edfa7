package mock

import "github.com/fwojciec/pageqa"

var _ pageqa.Converter = (*Converter)(nil)

// Converter is a mock implementation of pageqa.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
