package dto

type ModelsResponse struct {
	AvailableModels []string `json:"available_models"`
	CurrentModel    string   `json:"current_model"`
}

type SetModelRequest struct {
	ModelName string `json:"model_name" validate:"required"`
}

type SetModelResponse struct {
	Message      string `json:"message"`
	CurrentModel string `json:"current_model"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type StatusResponse struct {
	Message string `json:"message"`
}
