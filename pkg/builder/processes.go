package builder

import (
	"fmt"

	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/mitchellh/mapstructure"
)

// Process parameter names and defaults understood by the externalized processor.
const (
	ParamCalculationNodesTags = "Tags for filtering calculation nodes (separated by ',' or ';')"
	ParamAttachEntity         = "Attach entity"
	ParamResponseTimeout      = "Calculation response timeout (ms)"
	ParamRetryPolicy          = "Retry policy"

	DefaultResponseTimeoutMs = 120000
	DefaultRetryPolicy       = "NONE"
)

// transitionProcesses turns a published action into a process reference. Unpublished actions
// run inside the assistant and never reach the platform.
func (c *compilation) transitionProcesses(def models.TransitionDef) ([]*models.ProcessIDDto, error) {
	if def.Action == nil {
		return nil, nil
	}

	cfg, err := decodeActionConfig(def.Action.Config)
	if err != nil {
		return nil, err
	}

	if !cfg.Publish {
		c.b.logger.Debug("Skipping unpublished action", "action", def.Action.Name)

		return nil, nil
	}

	name := cfg.Function.Name
	if name == "" {
		name = def.Action.Name
	}

	if name == "" {
		return nil, fmt.Errorf("%w: action has neither a name nor a function name", ErrInvalidAction)
	}

	description := cfg.Function.Description
	if description == "" {
		description = def.Description
	}

	return []*models.ProcessIDDto{c.process(name, description, cfg).ID}, nil
}

func decodeActionConfig(raw map[string]any) (models.ActionConfig, error) {
	var cfg models.ActionConfig

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	if err := decoder.Decode(raw); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	return cfg, nil
}

// process returns the record for name, creating it and its parameters on first use.
func (c *compilation) process(name, description string, cfg models.ActionConfig) *models.ProcessRecord {
	if existing, ok := c.processes[name]; ok {
		return existing
	}

	attachEntity := true
	if cfg.AttachEntity != nil {
		attachEntity = *cfg.AttachEntity
	}

	timeout := DefaultResponseTimeoutMs
	if cfg.ResponseTimeoutMs != nil {
		timeout = *cfg.ResponseTimeoutMs
	}

	retryPolicy := cfg.RetryPolicy
	if retryPolicy == "" {
		retryPolicy = DefaultRetryPolicy
	}

	params := []*models.ProcessParamRecord{
		c.processParam(ParamCalculationNodesTags, models.ProcessParamString, c.b.opts.CalculationNodeTags),
		c.processParam(ParamAttachEntity, models.ProcessParamBoolean, attachEntity),
		c.processParam(ParamResponseTimeout, models.ProcessParamInteger, timeout),
		c.processParam(ParamRetryPolicy, models.ProcessParamString, retryPolicy),
	}

	process := &models.ProcessRecord{
		Persisted:            true,
		Owner:                c.b.opts.DefaultOwner,
		CalculationNodesTags: c.b.opts.CalculationNodeTags,
		ID: &models.ProcessIDDto{
			Bean:        models.ProcessIDBean,
			Persisted:   true,
			PersistedID: c.b.newID(),
			RuntimeID:   0,
		},
		Name:                      name,
		EntityClassName:           models.EntityClassName,
		CreationDate:              c.b.timestamp(),
		Description:               description,
		ProcessorClassName:        models.ProcessorClassName,
		Parameters:                params,
		Fields:                    []any{},
		SyncProcess:               cfg.SyncProcess,
		NewTransactionForAsync:    true,
		NoneTransactionalForAsync: false,
		IsTemplate:                false,
		CriteriaIDs:               []string{},
		User:                      c.b.opts.DefaultUser,
	}

	c.processes[name] = process
	c.dto.Processes = append(c.dto.Processes, process)

	return process
}

func (c *compilation) processParam(name string, valueType models.ProcessParamValueType, value any) *models.ProcessParamRecord {
	javaType := "String"

	switch valueType {
	case models.ProcessParamInteger:
		javaType = "Integer"
	case models.ProcessParamBoolean:
		javaType = "Boolean"
	case models.ProcessParamString:
	}

	param := &models.ProcessParamRecord{
		Persisted:    true,
		Owner:        c.b.opts.DefaultOwner,
		ID:           c.b.newID(),
		Name:         name,
		CreationDate: c.b.timestamp(),
		ValueType:    valueType,
		Value:        models.TypedValue{Type: javaType, Value: value},
	}

	c.dto.ProcessParams = append(c.dto.ProcessParams, param)

	return param
}
