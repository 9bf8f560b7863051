package queries

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"gorm.io/gorm"
)

// GetDelivererOrdersQueryHandler lists a deliverer's orders, most recently
// updated first.
type GetDelivererOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetDelivererOrdersQueryHandler(db *gorm.DB) GetDelivererOrdersQueryHandler {
	return GetDelivererOrdersQueryHandler{db: db}
}

func (h GetDelivererOrdersQueryHandler) Handle(ctx context.Context, query GetDelivererOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery, args, err := buildDelivererOrdersQuery(query)
	if err != nil {
		return nil, err
	}

	return scanOrderViews(h.db.WithContext(ctx).Raw(sqlQuery, args...))
}

// buildDelivererOrdersQuery renders a prepared statement; values travel as
// positional arguments.
func buildDelivererOrdersQuery(query GetDelivererOrdersQuery) (string, []any, error) {
	where := []goqu.Expression{goqu.C(colDelivererID).Eq(query.DelivererID().String())}

	if statuses := query.Statuses(); len(statuses) > 0 {
		values := make([]any, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, int(s))
		}
		where = append(where, goqu.C(colStatus).In(values...))
	}

	return selectOrderViews().
		Where(where...).
		Order(goqu.I(colUpdatedAt).Desc(), goqu.I(colID).Asc()).
		ToSQL()
}
