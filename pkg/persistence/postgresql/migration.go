package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create workflows table
			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				company_id VARCHAR(255) NOT NULL,
				type VARCHAR(50) NOT NULL CHECK (type IN ('job_position_opening', 'candidate_application', 'company_onboarding')),
				display_mode VARCHAR(50) NOT NULL DEFAULT 'kanban',
				phase_id VARCHAR(255),
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				status VARCHAR(50) NOT NULL CHECK (status IN ('draft', 'active', 'archived')),
				is_default BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflows_company_id ON workflows(company_id);
			CREATE INDEX idx_workflows_status ON workflows(status);
			CREATE INDEX idx_workflows_company_type_default ON workflows(company_id, type) WHERE is_default;

			-- Create workflow_stages table
			CREATE TABLE workflow_stages (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				stage_type VARCHAR(50) NOT NULL CHECK (stage_type IN ('initial', 'progress', 'success', 'fail', 'hold')),
				stage_order INT NOT NULL DEFAULT 0 CHECK (stage_order >= 0),
				allow_skip BOOLEAN NOT NULL DEFAULT false,
				is_active BOOLEAN NOT NULL DEFAULT true,
				default_assignee_id VARCHAR(255),
				email_template_id VARCHAR(255),
				duration_minutes INT,
				deadline_days INT,
				cost_estimate DOUBLE PRECISION,
				next_phase_id VARCHAR(255),
				kanban_display VARCHAR(50) NOT NULL DEFAULT 'kanban',
				style JSONB DEFAULT '{}',
				validation_rules JSONB,
				recommended_rules JSONB,
				interviews JSONB DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflow_stages_workflow_id ON workflow_stages(workflow_id);
			CREATE INDEX idx_workflow_stages_order ON workflow_stages(workflow_id, stage_order);
		`,
		2: `
			-- Create validation_rules table
			CREATE TABLE validation_rules (
				id UUID PRIMARY KEY,
				field_id VARCHAR(255) NOT NULL,
				stage_id UUID NOT NULL REFERENCES workflow_stages(id) ON DELETE CASCADE,
				rule_type VARCHAR(50) NOT NULL CHECK (rule_type IN ('comparison', 'expression')),
				operator VARCHAR(50) NOT NULL DEFAULT '',
				comparison_value JSONB,
				position_field_path VARCHAR(255) NOT NULL DEFAULT '',
				expression JSONB,
				severity VARCHAR(50) NOT NULL CHECK (severity IN ('error', 'warning')),
				message_template TEXT NOT NULL DEFAULT '',
				auto_reject BOOLEAN NOT NULL DEFAULT false,
				rejection_reason TEXT NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_validation_rules_stage_id ON validation_rules(stage_id);
			CREATE INDEX idx_validation_rules_order ON validation_rules(stage_id, created_at, id);
		`,
		3: `
			-- Create applications, job_positions and custom_fields tables
			CREATE TABLE applications (
				id UUID PRIMARY KEY,
				candidate_id VARCHAR(255) NOT NULL DEFAULT '',
				position_id VARCHAR(255) NOT NULL,
				stage_id VARCHAR(255) NOT NULL DEFAULT '',
				status VARCHAR(50) NOT NULL CHECK (status IN ('applied', 'screening', 'approved', 'rejected', 'hired')),
				answers JSONB DEFAULT '{}',
				note TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_applications_position_id ON applications(position_id);
			CREATE INDEX idx_applications_status ON applications(status);

			CREATE TABLE job_positions (
				id UUID PRIMARY KEY,
				company_id VARCHAR(255) NOT NULL DEFAULT '',
				title VARCHAR(255) NOT NULL,
				data JSONB DEFAULT '{}',
				questions JSONB DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_job_positions_company_id ON job_positions(company_id);

			CREATE TABLE custom_fields (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				field_type VARCHAR(50) NOT NULL DEFAULT 'text'
			);
		`,
	}
}
