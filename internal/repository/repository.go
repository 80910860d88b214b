// Пакет repository — слой доступа к данным MongoDB.
// Все операции — прямые вызовы драйвера, без ODM.
package repository

import (
	"errors"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — документ не найден.
	ErrNotFound = errors.New("документ не найден")
)

// Имена коллекций.
const (
	// CollectionApplications — коллекция заявок.
	CollectionApplications = "applications"
)
