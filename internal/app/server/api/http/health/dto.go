package health

type Input struct{}

type Output struct {
	Body Response
}

// Response - ответ проверок живости и готовности.
type Response struct {
	Status  string `json:"status" example:"OK" doc:"Health status of the service"`
	Version string `json:"version,omitempty" example:"1.0.0" doc:"Service version"`
	Storage string `json:"storage,omitempty" example:"up" doc:"Settings storage state, readiness only"`
}
