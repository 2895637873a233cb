package models

import (
	"bytes"
	"encoding/json"
)

// Optional поле частичного обновления: не передано | null | значение
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON вызывается только если ключ присутствует в теле запроса
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON нужен для клиентов и тестов, собирающих патчи
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// HasValue true если передано не-null значение
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// Ptr возвращает nil для null, иначе указатель на значение
func (o Optional[T]) Ptr() *T {
	if !o.HasValue() {
		return nil
	}
	v := o.Value
	return &v
}

func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: v} }

func Null[T any]() Optional[T] { return Optional[T]{Set: true, Null: true} }

// NullIfEmpty трактует пустую строку как явный null
func NullIfEmpty(o Optional[string]) Optional[string] {
	if o.Set && !o.Null && o.Value == "" {
		return Null[string]()
	}
	return o
}

// StringPtr возвращает nil для пустой строки
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
