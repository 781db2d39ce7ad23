package access

import "github.com/magabrotheeeer/dotpoint/internal/models"

// Identity представляет результат аутентификации одного запроса.
// Значение неизменяемо: поля доступны только через методы,
// а множество недоступных продуктов наружу копируется.
type Identity struct {
	subjectID    int64
	role         models.Role
	inaccessible ProductSet
}

// NewIdentity собирает Identity. Для администратора множество игнорируется.
func NewIdentity(subjectID int64, role models.Role, inaccessible ProductSet) Identity {
	if role == models.RoleAdmin {
		inaccessible = nil
	}
	return Identity{
		subjectID:    subjectID,
		role:         role,
		inaccessible: inaccessible,
	}
}

// SubjectID возвращает идентификатор пользователя.
func (i Identity) SubjectID() int64 { return i.subjectID }

// Role возвращает роль пользователя.
func (i Identity) Role() models.Role { return i.role }

// IsAdmin сообщает, является ли пользователь администратором.
func (i Identity) IsAdmin() bool { return i.role == models.RoleAdmin }

// Inaccessible возвращает копию множества недоступных продуктов.
func (i Identity) Inaccessible() ProductSet {
	if i.inaccessible == nil {
		return nil
	}
	return NewProductSet(i.inaccessible.IDs()...)
}

// CanAccessProduct сообщает, доступен ли продукт productID.
func (i Identity) CanAccessProduct(productID int64) bool {
	if i.IsAdmin() {
		return true
	}
	return !i.inaccessible.Contains(productID)
}
