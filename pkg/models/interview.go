package models

// InterviewMode is how the interview is held.
type InterviewMode string

const (
	InterviewModeOnsite InterviewMode = "onsite"
	InterviewModeRemote InterviewMode = "remote"
	InterviewModePhone  InterviewMode = "phone"
)

// InterviewConfiguration describes one interview attached to a stage.
type InterviewConfiguration struct {
	Name            string        `json:"name"`
	InterviewType   string        `json:"interview_type"`
	DurationMinutes int           `json:"duration_minutes"`
	Mode            InterviewMode `json:"mode"`
	Required        bool          `json:"required"`
	Interviewers    []string      `json:"interviewers"`
}

// ToMap serializes the configuration for storage inside a stage record.
func (c InterviewConfiguration) ToMap() map[string]any {
	interviewers := make([]any, len(c.Interviewers))
	for i, id := range c.Interviewers {
		interviewers[i] = id
	}

	return map[string]any{
		"name":             c.Name,
		"interview_type":   c.InterviewType,
		"duration_minutes": c.DurationMinutes,
		"mode":             string(c.Mode),
		"required":         c.Required,
		"interviewers":     interviewers,
	}
}

// InterviewConfigurationFromMap is the inverse of ToMap. Numeric values
// may arrive as float64 after a JSON round trip.
func InterviewConfigurationFromMap(data map[string]any) InterviewConfiguration {
	config := InterviewConfiguration{Interviewers: []string{}}

	if name, ok := data["name"].(string); ok {
		config.Name = name
	}

	if interviewType, ok := data["interview_type"].(string); ok {
		config.InterviewType = interviewType
	}

	switch duration := data["duration_minutes"].(type) {
	case int:
		config.DurationMinutes = duration
	case float64:
		config.DurationMinutes = int(duration)
	}

	if mode, ok := data["mode"].(string); ok {
		config.Mode = InterviewMode(mode)
	}

	if required, ok := data["required"].(bool); ok {
		config.Required = required
	}

	if interviewers, ok := data["interviewers"].([]any); ok {
		for _, raw := range interviewers {
			if id, asString := raw.(string); asString {
				config.Interviewers = append(config.Interviewers, id)
			}
		}
	}

	return config
}
