package utils

import "golang.org/x/crypto/bcrypt"

// bcryptCost задает стоимость хеширования паролей
const bcryptCost = 12

// HashPassword хеширует пароль пользователя
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword сверяет пароль с сохраненным хешем
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
