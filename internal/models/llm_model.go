package models

// LLMModel represents a single model option exposed to the UI.
type LLMModel struct {
	ID                 string  `json:"id"`
	ProviderID         string  `json:"providerId"`
	TemperatureMin     float64 `json:"temperatureMin"`
	TemperatureMax     float64 `json:"temperatureMax"`
	TemperatureDefault float64 `json:"temperatureDefault"`
	ContextMin         int     `json:"contextMin"`
	ContextMax         int     `json:"contextMax"`
	ContextDefault     string  `json:"contextDefault"`
	GenerateMin        int     `json:"generateMin"`
	GenerateMax        int     `json:"generateMax"`
	GenerateDefault    string  `json:"generateDefault"`
}

// LLMModelGroup groups models by their provider for presentation.
type LLMModelGroup struct {
	ProviderID string     `json:"providerId"`
	URL        string     `json:"url"`
	NeedAPI    bool       `json:"needApi"`
	HasKey     bool       `json:"hasKey"`
	Models     []LLMModel `json:"models"`
}
