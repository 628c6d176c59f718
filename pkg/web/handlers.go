// Package web provides HTTP handlers and REST API endpoints for workflow conversion.
package web

import (
	"bytes"
	"net/http"
	"time"

	"github.com/dukex/workflow-dto/pkg/authoring"
	"github.com/dukex/workflow-dto/pkg/mapping"
	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/dukex/workflow-dto/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	converter *services.Converter
	validator *validator.Validate
}

func NewAPIHandlers(converter *services.Converter, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		converter: converter,
		validator: validator,
	}
}

// Convert compiles the request's spec and returns the DTO in its file encoding.
func (h *APIHandlers) Convert(c fiber.Ctx) error {
	dto, err := h.compile(c)
	if err != nil {
		return err
	}

	if dto == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := dto.Encode(&buf); err != nil {
		return handleServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)

	return c.Send(buf.Bytes())
}

// Validate compiles the request's spec and returns a summary instead of the DTO.
func (h *APIHandlers) Validate(c fiber.Ctx) error {
	dto, err := h.compile(c)
	if err != nil || dto == nil {
		return err
	}

	return c.JSON(ValidateResponse{
		Valid:       true,
		Workflow:    dto.Workflow[0].Name,
		States:      len(dto.States),
		Transitions: len(dto.Transitions),
		Criterias:   len(dto.Criterias),
		Processes:   len(dto.Processes),
	})
}

// compile returns a nil DTO when an error response has already been written.
func (h *APIHandlers) compile(c fiber.Ctx) (*models.FullWorkflowContainerDto, error) {
	var req ConvertRequest
	if err := c.Bind().JSON(&req); err != nil {
		return nil, badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, badRequest(c, err.Error())
	}

	spec, err := authoring.Decode(req.Spec, authoring.FormatJSON)
	if err != nil {
		return nil, handleServiceError(c, err)
	}

	dto, err := h.converter.Compile(c.Context(), spec, req.BuilderOptions())
	if err != nil {
		return nil, handleServiceError(c, err)
	}

	return dto, nil
}

// Operations lists the supported condition operators.
func (h *APIHandlers) Operations(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"operations": mapping.Operations(),
	})
}

// Schema returns the authoring JSON Schema.
func (h *APIHandlers) Schema(c fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Send(authoring.Schema())
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.converter.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Workflow DTO API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Workflow DTO API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
