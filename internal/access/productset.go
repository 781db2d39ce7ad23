// Package access вычисляет права пользователя на продукты каталога
// и проверяет доступ к продуктам, модулям и статическим файлам.
//
// Центральное понятие пакета: множество недоступных продуктов
// (subscription_required без действующей подписки). Всё остальное,
// включая бесплатные продукты, пользователю доступно.
package access

import "slices"

// ProductSet представляет множество идентификаторов продуктов.
// nil-множество означает «ограничений нет».
type ProductSet map[int64]struct{}

// NewProductSet строит множество из списка идентификаторов; дубликаты схлопываются.
func NewProductSet(ids ...int64) ProductSet {
	s := make(ProductSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains безопасен для nil-множества.
func (s ProductSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// Len возвращает число элементов.
func (s ProductSet) Len() int { return len(s) }

// IDs возвращает элементы по возрастанию.
func (s ProductSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// without возвращает элементы ids, которых нет в exclude.
func without(ids []int64, exclude ProductSet) ProductSet {
	s := make(ProductSet, len(ids))
	for _, id := range ids {
		if !exclude.Contains(id) {
			s[id] = struct{}{}
		}
	}
	return s
}
