package chat

type sendInput struct {
	Body sendRequest
}

type sendRequest struct {
	UserID string `json:"user_id" minLength:"1" maxLength:"64" example:"123456789" doc:"Идентификатор пользователя в канале чата"`
	Text   string `json:"text" maxLength:"4096" example:"What are my top expenses?" doc:"Текст сообщения или команда"`
}

type sendOutput struct {
	Body sendResponse
}

type sendResponse struct {
	Replies        []string `json:"replies" doc:"Ответы бота по порядку"`
	AwaitingSecret bool     `json:"awaiting_secret" doc:"Следующий ответ - пароль или ключ, клиент должен скрыть ввод"`
}
