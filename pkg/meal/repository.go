package meal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error

	StoreMeal(ctx context.Context, m Meal) error
	GetMeal(ctx context.Context, id string) (Meal, error)
	// ListMealsByEvent returns meals ordered by date ascending (undated
	// last), then creation time.
	ListMealsByEvent(ctx context.Context, eventID string) ([]Meal, error)
	UpdateMeal(ctx context.Context, m Meal) error
	DeleteMeal(ctx context.Context, id string) error

	StoreItem(ctx context.Context, item MealItem) error
	GetItem(ctx context.Context, id string) (MealItem, error)
	ListItemsByMeal(ctx context.Context, mealID string) ([]MealItem, error)
	UpdateItem(ctx context.Context, item MealItem) error
	DeleteItem(ctx context.Context, id string) error
	DeleteItemsByMeal(ctx context.Context, mealID string) error

	StoreSignup(ctx context.Context, s MealSignup) error
	FindSignup(ctx context.Context, itemID, userID string) (MealSignup, error)
	ListSignupsByItem(ctx context.Context, itemID string) ([]MealSignup, error)
	DeleteSignup(ctx context.Context, itemID, userID string) error
	DeleteSignupsByItem(ctx context.Context, itemID string) error
	DeleteSignupsByMeal(ctx context.Context, mealID string) error
}

type RepositoryImpl struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db, tx: nil}
}

// getQueryer returns the appropriate database interface for queries (either tx or db)
func (r *RepositoryImpl) getQueryer() interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// The Rollback will be a no-op if the transaction was already committed
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	txRepo := &RepositoryImpl{db: r.db, tx: tx}
	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Meals

func (r *RepositoryImpl) StoreMeal(ctx context.Context, m Meal) error {
	query := `INSERT INTO meals (id, event_id, name, meal_type, meal_date, notes, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.getQueryer().ExecContext(ctx, query,
		m.ID, m.EventID, m.Name, string(m.Type), m.Date, m.Notes, m.CreatedAt.UnixMilli(), m.UpdatedAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store meal: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetMeal(ctx context.Context, id string) (Meal, error) {
	query := `SELECT id, event_id, name, meal_type, meal_date, notes, created_at, updated_at
				FROM meals WHERE id = $1`
	var m Meal
	var createdAt, updatedAt int64
	err := r.getQueryer().QueryRowContext(ctx, query, id).
		Scan(&m.ID, &m.EventID, &m.Name, &m.Type, &m.Date, &m.Notes, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Meal{}, ErrMealNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan meal: %w", err)
		log.Error(err)
		return Meal{}, err
	}
	m.CreatedAt = time.UnixMilli(createdAt)
	m.UpdatedAt = time.UnixMilli(updatedAt)
	return m, nil
}

func (r *RepositoryImpl) ListMealsByEvent(ctx context.Context, eventID string) ([]Meal, error) {
	// meal_date sorts lexicographically because it is YYYY-MM-DD; undated
	// meals go last.
	query := `SELECT id, event_id, name, meal_type, meal_date, notes, created_at, updated_at
				FROM meals WHERE event_id = $1
				ORDER BY meal_date IS NULL, meal_date ASC, created_at ASC`
	rows, err := r.getQueryer().QueryContext(ctx, query, eventID)
	if err != nil {
		err := fmt.Errorf("could not query meals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	meals := make([]Meal, 0, 10)
	for rows.Next() {
		var m Meal
		var createdAt, updatedAt int64
		if err := rows.Scan(&m.ID, &m.EventID, &m.Name, &m.Type, &m.Date, &m.Notes, &createdAt, &updatedAt); err != nil {
			err := fmt.Errorf("could not scan meal row: %w", err)
			log.Error(err)
			return nil, err
		}
		m.CreatedAt = time.UnixMilli(createdAt)
		m.UpdatedAt = time.UnixMilli(updatedAt)
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func (r *RepositoryImpl) UpdateMeal(ctx context.Context, m Meal) error {
	query := `UPDATE meals SET name = $1, meal_type = $2, meal_date = $3, notes = $4, updated_at = $5 WHERE id = $6`
	res, err := r.getQueryer().ExecContext(ctx, query,
		m.Name, string(m.Type), m.Date, m.Notes, m.UpdatedAt.UnixMilli(), m.ID)
	if err != nil {
		err := fmt.Errorf("could not update meal: %w", err)
		log.Error(err)
		return err
	}
	return requireAffected(res, ErrMealNotFound)
}

func (r *RepositoryImpl) DeleteMeal(ctx context.Context, id string) error {
	res, err := r.getQueryer().ExecContext(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete meal: %w", err)
		log.Error(err)
		return err
	}
	return requireAffected(res, ErrMealNotFound)
}

// Meal items

const itemColumns = `i.id, i.meal_id, i.name, i.description, i.assigned_attendee_id, a.name, i.created_at, i.updated_at`

func (r *RepositoryImpl) StoreItem(ctx context.Context, item MealItem) error {
	query := `INSERT INTO meal_items (id, meal_id, name, description, assigned_attendee_id, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.getQueryer().ExecContext(ctx, query,
		item.ID, item.MealID, item.Name, item.Description, item.AssignedAttendeeID,
		item.CreatedAt.UnixMilli(), item.UpdatedAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store meal item: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetItem(ctx context.Context, id string) (MealItem, error) {
	query := `SELECT ` + itemColumns + `
				FROM meal_items i
				LEFT JOIN attendees a ON i.assigned_attendee_id = a.id
				WHERE i.id = $1`
	item, err := scanItem(r.getQueryer().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return MealItem{}, ErrMealItemNotFound
	}
	return item, err
}

func (r *RepositoryImpl) ListItemsByMeal(ctx context.Context, mealID string) ([]MealItem, error) {
	query := `SELECT ` + itemColumns + `
				FROM meal_items i
				LEFT JOIN attendees a ON i.assigned_attendee_id = a.id
				WHERE i.meal_id = $1
				ORDER BY i.name ASC`
	rows, err := r.getQueryer().QueryContext(ctx, query, mealID)
	if err != nil {
		err := fmt.Errorf("could not query meal items: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	items := make([]MealItem, 0, 10)
	for rows.Next() {
		item, err := scanItemRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *RepositoryImpl) UpdateItem(ctx context.Context, item MealItem) error {
	query := `UPDATE meal_items SET name = $1, description = $2, assigned_attendee_id = $3, updated_at = $4 WHERE id = $5`
	res, err := r.getQueryer().ExecContext(ctx, query,
		item.Name, item.Description, item.AssignedAttendeeID, item.UpdatedAt.UnixMilli(), item.ID)
	if err != nil {
		err := fmt.Errorf("could not update meal item: %w", err)
		log.Error(err)
		return err
	}
	return requireAffected(res, ErrMealItemNotFound)
}

func (r *RepositoryImpl) DeleteItem(ctx context.Context, id string) error {
	res, err := r.getQueryer().ExecContext(ctx, `DELETE FROM meal_items WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete meal item: %w", err)
		log.Error(err)
		return err
	}
	return requireAffected(res, ErrMealItemNotFound)
}

func (r *RepositoryImpl) DeleteItemsByMeal(ctx context.Context, mealID string) error {
	_, err := r.getQueryer().ExecContext(ctx, `DELETE FROM meal_items WHERE meal_id = $1`, mealID)
	if err != nil {
		err := fmt.Errorf("could not delete meal items: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

// Signups

func (r *RepositoryImpl) StoreSignup(ctx context.Context, s MealSignup) error {
	// The UNIQUE(meal_item_id, user_id) constraint is the authoritative
	// guard against concurrent duplicate signups.
	query := `INSERT INTO meal_signups (id, meal_item_id, user_id, notes, created_at)
				VALUES ($1, $2, $3, $4, $5)`
	_, err := r.getQueryer().ExecContext(ctx, query,
		s.ID, s.MealItemID, s.UserID, s.Notes, s.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("could not store signup: %w", err)
	}
	return nil
}

const signupColumns = `s.id, s.meal_item_id, s.user_id, u.name, u.email, s.notes, s.created_at`

func (r *RepositoryImpl) FindSignup(ctx context.Context, itemID, userID string) (MealSignup, error) {
	query := `SELECT ` + signupColumns + `
				FROM meal_signups s
				JOIN users u ON s.user_id = u.id
				WHERE s.meal_item_id = $1 AND s.user_id = $2`
	s, err := scanSignup(r.getQueryer().QueryRowContext(ctx, query, itemID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return MealSignup{}, ErrSignupNotFound
	}
	return s, err
}

func (r *RepositoryImpl) ListSignupsByItem(ctx context.Context, itemID string) ([]MealSignup, error) {
	query := `SELECT ` + signupColumns + `
				FROM meal_signups s
				JOIN users u ON s.user_id = u.id
				WHERE s.meal_item_id = $1
				ORDER BY s.created_at ASC`
	rows, err := r.getQueryer().QueryContext(ctx, query, itemID)
	if err != nil {
		err := fmt.Errorf("could not query signups: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	signups := make([]MealSignup, 0, 4)
	for rows.Next() {
		s, err := scanSignupRow(rows)
		if err != nil {
			return nil, err
		}
		signups = append(signups, s)
	}
	return signups, rows.Err()
}

func (r *RepositoryImpl) DeleteSignup(ctx context.Context, itemID, userID string) error {
	res, err := r.getQueryer().ExecContext(ctx,
		`DELETE FROM meal_signups WHERE meal_item_id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		err := fmt.Errorf("could not delete signup: %w", err)
		log.Error(err)
		return err
	}
	return requireAffected(res, ErrSignupNotFound)
}

func (r *RepositoryImpl) DeleteSignupsByItem(ctx context.Context, itemID string) error {
	_, err := r.getQueryer().ExecContext(ctx, `DELETE FROM meal_signups WHERE meal_item_id = $1`, itemID)
	if err != nil {
		err := fmt.Errorf("could not delete signups: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) DeleteSignupsByMeal(ctx context.Context, mealID string) error {
	query := `DELETE FROM meal_signups
				WHERE meal_item_id IN (SELECT id FROM meal_items WHERE meal_id = $1)`
	_, err := r.getQueryer().ExecContext(ctx, query, mealID)
	if err != nil {
		err := fmt.Errorf("could not delete signups: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

// helpers

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row *sql.Row) (MealItem, error) {
	return scanItemFrom(row)
}

func scanItemRow(rows *sql.Rows) (MealItem, error) {
	item, err := scanItemFrom(rows)
	if err != nil {
		err := fmt.Errorf("could not scan meal item row: %w", err)
		log.Error(err)
		return MealItem{}, err
	}
	return item, nil
}

func scanItemFrom(s rowScanner) (MealItem, error) {
	var item MealItem
	var assigneeName sql.NullString
	var createdAt, updatedAt int64
	err := s.Scan(&item.ID, &item.MealID, &item.Name, &item.Description,
		&item.AssignedAttendeeID, &assigneeName, &createdAt, &updatedAt)
	if err != nil {
		return MealItem{}, err
	}
	// A dangling assignment (attendee removed) reads as unassigned.
	if item.AssignedAttendeeID != nil && assigneeName.Valid {
		item.AssignedAttendeeName = &assigneeName.String
	}
	item.CreatedAt = time.UnixMilli(createdAt)
	item.UpdatedAt = time.UnixMilli(updatedAt)
	return item, nil
}

func scanSignup(row *sql.Row) (MealSignup, error) {
	return scanSignupFrom(row)
}

func scanSignupRow(rows *sql.Rows) (MealSignup, error) {
	s, err := scanSignupFrom(rows)
	if err != nil {
		err := fmt.Errorf("could not scan signup row: %w", err)
		log.Error(err)
		return MealSignup{}, err
	}
	return s, nil
}

func scanSignupFrom(sc rowScanner) (MealSignup, error) {
	var s MealSignup
	var createdAt int64
	err := sc.Scan(&s.ID, &s.MealItemID, &s.UserID, &s.UserName, &s.UserEmail, &s.Notes, &createdAt)
	if err != nil {
		return MealSignup{}, err
	}
	s.CreatedAt = time.UnixMilli(createdAt)
	return s, nil
}

func requireAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
