package queries

import (
	"context"
	"errors"

	"deliveryconfirm/internal/pkg/errs"

	"github.com/doug-martin/goqu/v9"
	"gorm.io/gorm"
)

// GetOrderQueryHandler returns *errs.ObjectNotFoundError for unknown ids.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	sqlQuery, args, err := selectOrderViews().
		Where(goqu.C(colID).Eq(query.OrderID().String())).
		ToSQL()
	if err != nil {
		return OrderView{}, err
	}

	views, err := scanOrderViews(h.db.WithContext(ctx).Raw(sqlQuery, args...))
	if err != nil {
		return OrderView{}, err
	}
	if len(views) == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	return views[0], nil
}

// selectOrderViews selects the OrderView columns as a prepared statement.
func selectOrderViews() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(tableOrders).
		Prepared(true).
		Select(colID, colStatus, colDelivererID, goqu.I(colConfirmationCode).IsNotNull(), colUpdatedAt)
}

func scanOrderViews(raw *gorm.DB) ([]OrderView, error) {
	rows, err := raw.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]OrderView, 0)
	for rows.Next() {
		var view OrderView
		if err = rows.Scan(
			&view.ID,
			&view.Status,
			&view.DelivererID,
			&view.HasConfirmationCode,
			&view.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err = view.Status.Validate(); err != nil {
			return nil, errors.Join(errs.NewValueIsInvalidError("stored order "+view.ID), err)
		}
		view.UpdatedAt = view.UpdatedAt.UTC()
		views = append(views, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}
