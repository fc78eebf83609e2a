package vault

import (
	"fmt"
)

// Vault привязан к парольной фразе сервиса и шифрует отдельные секреты.
// Парольная фраза не сохраняется никуда, кроме памяти процесса.
type Vault struct {
	passphrase string
	iterations int
}

type Option func(*Vault)

// WithIterations меняет число итераций PBKDF2. Токены, созданные с другим
// значением, не расшифровываются.
func WithIterations(n int) Option {
	return func(v *Vault) {
		if n > 0 {
			v.iterations = n
		}
	}
}

func New(passphrase string, opts ...Option) (*Vault, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	v := &Vault{
		passphrase: passphrase,
		iterations: DefaultIterations,
	}
	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Seal шифрует значение.
func (v *Vault) Seal(plaintext string) (string, error) {
	return encrypt(plaintext, v.passphrase, v.iterations)
}

// Open расшифровывает токен, ошибка всегда оборачивает ErrDecryptionFailed.
func (v *Vault) Open(token string) (string, error) {
	return decrypt(token, v.passphrase, v.iterations)
}

// EncryptFields шифрует каждое поле записи отдельно, имена полей не меняются.
func (v *Vault) EncryptFields(fields map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for name, value := range fields {
		token, err := v.Seal(value)
		if err != nil {
			return nil, fmt.Errorf("encrypt field %s: %w", name, err)
		}
		out[name] = token
	}

	return out, nil
}

// DecryptFields расшифровывает запись целиком либо не возвращает ничего.
func (v *Vault) DecryptFields(fields map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for name, token := range fields {
		value, err := v.Open(token)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		out[name] = value
	}

	return out, nil
}
