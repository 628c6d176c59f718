package models

import (
	"encoding/json"
	"io"
)

// DTOIndent is the indentation of an encoded FullWorkflowContainerDto.
const DTOIndent = "    "

// Encode writes the DTO as indented JSON followed by a newline. HTML characters are not escaped.
func (d *FullWorkflowContainerDto) Encode(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", DTOIndent)
	encoder.SetEscapeHTML(false)

	return encoder.Encode(d)
}
