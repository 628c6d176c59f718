package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE authoring_specs (
				name VARCHAR(255) PRIMARY KEY,
				format VARCHAR(10) NOT NULL CHECK (format IN ('json', 'yaml')),
				body TEXT NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			-- body keeps the exact file encoding; JSONB would reorder keys
			CREATE TABLE workflow_dtos (
				name VARCHAR(255) PRIMARY KEY,
				workflow_name VARCHAR(255) NOT NULL,
				body TEXT NOT NULL,
				state_count INT NOT NULL,
				transition_count INT NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_workflow_dtos_workflow_name ON workflow_dtos(workflow_name);
		`,
	}
}
