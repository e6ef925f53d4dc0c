package model

import "encoding/json"

// SecretMask — сентинел, который отдаётся клиенту вместо секретного значения.
const SecretMask = "******"

// Secret — обёртка для секретных настроек (например, AI API key).
// В JSON всегда сериализуется маской; сырое значение доступно только
// через Reveal на серверной стороне.
type Secret string

func (s Secret) MarshalJSON() ([]byte, error) {
	if s == "" {
		return json.Marshal("")
	}
	return json.Marshal(SecretMask)
}

// Reveal возвращает сырое значение. Не использовать в read-путях API.
func (s Secret) Reveal() string { return string(s) }

// IsMask сообщает, что клиент прислал сентинел, а не новое значение.
func IsMask(v string) bool { return v == SecretMask }
