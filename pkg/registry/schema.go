package registry

// FlowRegistry is the published description of every flow task, used by
// process modellers to wire service tasks.
type FlowRegistry struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Flows       []Flow `json:"flows"`
}

type Flow struct {
	TaskType       string                 `json:"taskType"`
	DisplayName    string                 `json:"displayName"`
	Description    string                 `json:"description"`
	Category       string                 `json:"category"`
	RequiredFields []string               `json:"requiredFields"`
	HasGuard       bool                   `json:"hasGuard"`
	InputSchema    map[string]interface{} `json:"inputSchema,omitempty"`
	OutputSchema   map[string]interface{} `json:"outputSchema"`
	ErrorCodes     []string               `json:"errorCodes"`
	Timeout        string                 `json:"timeout"`
	Retries        int                    `json:"retries"`
}
