package settings

import (
	"time"

	"odosight/internal/erp"
)

// UserConfig - запись хранилища. Пароль ERP и ключ AI хранятся только зашифрованными.
type UserConfig struct {
	UserID            string
	ERPURL            string
	ERPDatabase       string
	ERPUsername       string
	EncryptedPassword string
	EncryptedAIKey    string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Draft - ответы мастера настройки в открытом виде, живут только в памяти.
type Draft struct {
	URL      string
	Database string
	Username string
	Password string
	AIKey    string
}

// Credentials - расшифрованные учетные данные пользователя.
type Credentials struct {
	ERP   erp.Credentials
	AIKey string
}
