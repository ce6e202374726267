package repository

import (
	"gorm.io/gorm"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
)

// applyScope narrows a query to the centers the caller may see. An empty
// non-admin scope matches nothing; a manager with no assignments must get
// empty results, never unrestricted ones.
func applyScope(q *gorm.DB, column string, scope access.Scope) *gorm.DB {
	if scope.All {
		return q
	}
	if scope.Empty() {
		return q.Where("1 = 0")
	}
	return q.Where(column+" IN ?", scope.CenterIDs)
}
