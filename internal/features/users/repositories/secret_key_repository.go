package users_repositories

import (
	"errors"
	"sync"

	"pocketprc/internal/storage"
)

type secretKeyRow struct {
	Secret string `gorm:"column:secret"`
}

func (secretKeyRow) TableName() string {
	return "secret_keys"
}

// SecretKeyRepository reads the signing secret once; it never changes for
// the life of the process.
type SecretKeyRepository struct {
	mu     sync.RWMutex
	secret string
}

func (r *SecretKeyRepository) GetSecretKey() (string, error) {
	r.mu.RLock()
	secret := r.secret
	r.mu.RUnlock()

	if secret != "" {
		return secret, nil
	}

	var row secretKeyRow
	if err := storage.GetDb().First(&row).Error; err != nil {
		return "", err
	}

	if row.Secret == "" {
		return "", errors.New("secret key is empty")
	}

	r.mu.Lock()
	r.secret = row.Secret
	r.mu.Unlock()

	return row.Secret, nil
}
