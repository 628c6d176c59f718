// Package web provides HTTP request and response types for the conversion API.
package web

import (
	"encoding/json"

	"github.com/dukex/workflow-dto/pkg/builder"
)

// ConvertRequest is the body of POST /convert and POST /validate. Spec holds the authoring
// document as a JSON object.
type ConvertRequest struct {
	Spec                json.RawMessage `json:"spec"                  validate:"required"`
	ModelName           string          `json:"model_name"            validate:"required"`
	ModelVersion        int             `json:"model_version"         validate:"required,min=1"`
	WorkflowName        string          `json:"workflow_name"         validate:"required"`
	CalculationNodeTags string          `json:"calculation_node_tags"`
	AI                  bool            `json:"ai"`
	Owner               string          `json:"owner,omitempty"`
	User                string          `json:"user,omitempty"`
}

// BuilderOptions maps the request onto compiler options.
func (r ConvertRequest) BuilderOptions() builder.Options {
	return builder.Options{
		ModelName:           r.ModelName,
		ModelVersion:        r.ModelVersion,
		WorkflowName:        r.WorkflowName,
		CalculationNodeTags: r.CalculationNodeTags,
		AI:                  r.AI,
		DefaultOwner:        r.Owner,
		DefaultUser:         r.User,
	}
}

// ValidateResponse summarizes a successful dry-run compilation.
type ValidateResponse struct {
	Valid       bool   `json:"valid"`
	Workflow    string `json:"workflow"`
	States      int    `json:"states"`
	Transitions int    `json:"transitions"`
	Criterias   int    `json:"criterias"`
	Processes   int    `json:"processes"`
}
