package repositories

import "errors"

// ErrNotFound возвращается, когда запрошенная запись отсутствует
var ErrNotFound = errors.New("record not found")

// ErrDuplicate возвращается при нарушении уникальности (например, повторный email)
var ErrDuplicate = errors.New("duplicate record")
