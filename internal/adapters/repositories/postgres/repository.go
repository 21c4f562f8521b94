package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"water-route-service/internal/domain"
	"water-route-service/internal/platform/obs"
	"water-route-service/internal/ports"
)

var (
	_ ports.OrderRepository = (*Repository)(nil)
	_ ports.RouteRepository = (*Repository)(nil)
)

// Repository persists orders and routes in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the orders and routes tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("migrate: DB is nil")
	}
	if err := db.WithContext(ctx).AutoMigrate(&orderRecord{}, &routeRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (r *Repository) GetOrder(ctx context.Context, id int64) (_ *domain.Order, err error) {
	defer obs.Time(ctx, "repo.get_order")(&err)

	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec orderRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("order", id)
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return rec.toDomain(), nil
}

func (r *Repository) ListOrders(ctx context.Context) (_ []*domain.Order, err error) {
	defer obs.Time(ctx, "repo.list_orders")(&err)

	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var recs []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := make([]*domain.Order, 0, len(recs))
	for i := range recs {
		orders = append(orders, recs[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) UpdateOrderFields(ctx context.Context, id int64, f ports.OrderFields) (_ *domain.Order, err error) {
	defer obs.Time(ctx, "repo.update_order_fields")(&err)

	if err := r.ensureDB(); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if f.Status != nil {
		updates["status"] = string(*f.Status)
	}
	if f.RouteID != nil {
		updates["route_id"] = *f.RouteID
	}
	if f.EstimatedDeliveryTime != nil {
		updates["estimated_delivery_time"] = *f.EstimatedDeliveryTime
	}
	if f.DeliverySequence != nil {
		updates["delivery_sequence"] = *f.DeliverySequence
	}
	if len(updates) == 0 {
		return r.GetOrder(ctx, id)
	}
	updates["updated_at"] = gorm.Expr("NOW()")

	q := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id)
	if f.ExpectedStatus != nil {
		q = q.Where("status = ?", string(*f.ExpectedStatus))
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		current, err := r.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		if f.ExpectedStatus == nil {
			return current, nil
		}
		return nil, &domain.TransitionError{
			Entity:   "order",
			ID:       id,
			Action:   "update",
			Current:  string(current.Status),
			Required: []string{string(*f.ExpectedStatus)},
		}
	}

	return r.GetOrder(ctx, id)
}

func (r *Repository) GetRoute(ctx context.Context, id int64) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "repo.get_route")(&err)

	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec routeRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("route", id)
		}
		return nil, fmt.Errorf("get route %d: %w", id, err)
	}
	return rec.toDomain(), nil
}

// ListRoutes returns routes newest first.
func (r *Repository) ListRoutes(ctx context.Context) (_ []*domain.Route, err error) {
	defer obs.Time(ctx, "repo.list_routes")(&err)

	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var recs []routeRecord
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	routes := make([]*domain.Route, 0, len(recs))
	for i := range recs {
		routes = append(routes, recs[i].toDomain())
	}
	return routes, nil
}

func (r *Repository) CreateRoute(ctx context.Context, route *domain.Route) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "repo.create_route")(&err)

	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if route == nil {
		return nil, errors.New("route is nil")
	}

	rec := toRouteRecord(route)
	rec.ID = 0
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *Repository) UpdateRouteFields(ctx context.Context, id int64, f ports.RouteFields) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "repo.update_route_fields")(&err)

	if err := r.ensureDB(); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if f.Status != nil {
		updates["status"] = string(*f.Status)
	}
	if f.CurrentLocation != nil {
		updates["current_location"] = *f.CurrentLocation
	}
	if f.StartTime != nil {
		updates["start_time"] = *f.StartTime
	}
	if f.EndTime != nil {
		updates["end_time"] = *f.EndTime
	}
	if f.LastUpdate != nil {
		updates["last_update"] = *f.LastUpdate
	}
	if len(updates) == 0 {
		return r.GetRoute(ctx, id)
	}
	updates["updated_at"] = gorm.Expr("NOW()")

	q := r.db.WithContext(ctx).Model(&routeRecord{}).Where("id = ?", id)
	if f.ExpectedStatus != nil {
		q = q.Where("status = ?", string(*f.ExpectedStatus))
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update route %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		current, err := r.GetRoute(ctx, id)
		if err != nil {
			return nil, err
		}
		if f.ExpectedStatus == nil {
			return current, nil
		}
		return nil, &domain.TransitionError{
			Entity:   "route",
			ID:       id,
			Action:   "update",
			Current:  string(current.Status),
			Required: []string{string(*f.ExpectedStatus)},
		}
	}

	return r.GetRoute(ctx, id)
}

// SeedOrders inserts or replaces orders by id.
func (r *Repository) SeedOrders(ctx context.Context, orders []*domain.Order) (err error) {
	defer obs.Time(ctx, "repo.seed_orders")(&err)

	if err := r.ensureDB(); err != nil {
		return err
	}
	if len(orders) == 0 {
		return nil
	}
	recs := make([]orderRecord, 0, len(orders))
	for _, o := range orders {
		recs = append(recs, toOrderRecord(o))
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&recs).Error
}

// SeedRoutes inserts or replaces routes by id and moves the id sequence past them.
func (r *Repository) SeedRoutes(ctx context.Context, routes []*domain.Route) (err error) {
	defer obs.Time(ctx, "repo.seed_routes")(&err)

	if err := r.ensureDB(); err != nil {
		return err
	}
	if len(routes) == 0 {
		return nil
	}
	recs := make([]routeRecord, 0, len(routes))
	for _, rt := range routes {
		recs = append(recs, toRouteRecord(rt))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
			Create(&recs).Error; err != nil {
			return err
		}
		return tx.Exec(`SELECT setval(pg_get_serial_sequence('routes', 'id'), (SELECT MAX(id) FROM routes))`).Error
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres repository not configured")
	}
	return nil
}
