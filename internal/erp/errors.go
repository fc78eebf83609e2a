package erp

import "errors"

var (
	// ErrConnectionFailed - транспорт или проверка учетных данных не прошли
	ErrConnectionFailed = errors.New("erp connection failed")
	// ErrAccessDenied - метод запрещен политикой только-чтения, сеть не использовалась
	ErrAccessDenied = errors.New("erp access denied")
	// ErrExecutionFailed - удаленный метод вернул ошибку
	ErrExecutionFailed = errors.New("erp execution failed")
	// ErrUnsupportedProtocol - неизвестный RPC протокол в конфигурации
	ErrUnsupportedProtocol = errors.New("unsupported rpc protocol")
)
