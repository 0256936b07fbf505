package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, password_hash)
		VALUES ($1, LOWER($2), $3, $4)
	`, user.ID, user.Email, user.DisplayName, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, created_at
		FROM users
		WHERE email = LOWER($1)
	`, email).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, created_at
		FROM users
		WHERE id=$1
	`, userID).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) ListChecklistItems(ctx context.Context, categorySlug string) ([]ChecklistItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_slug, display_order, original_text, friendly_text
		FROM checklist_items
		WHERE category_slug=$1
		ORDER BY display_order ASC
	`, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()

	items := make([]ChecklistItem, 0)
	for rows.Next() {
		var item ChecklistItem
		if err := rows.Scan(&item.ID, &item.CategorySlug, &item.DisplayOrder, &item.OriginalText, &item.FriendlyText); err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklist items: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetChecklistItem(ctx context.Context, itemID string) (ChecklistItem, error) {
	var item ChecklistItem
	err := s.db.QueryRowContext(ctx, `
		SELECT id, category_slug, display_order, original_text, friendly_text
		FROM checklist_items
		WHERE id=$1
	`, itemID).Scan(&item.ID, &item.CategorySlug, &item.DisplayOrder, &item.OriginalText, &item.FriendlyText)
	if err != nil {
		return ChecklistItem{}, err
	}
	return item, nil
}

func (s *PostgresStore) GetChecklistItemByStep(ctx context.Context, categorySlug string, displayOrder int) (ChecklistItem, error) {
	var item ChecklistItem
	err := s.db.QueryRowContext(ctx, `
		SELECT id, category_slug, display_order, original_text, friendly_text
		FROM checklist_items
		WHERE category_slug=$1 AND display_order=$2
	`, categorySlug, displayOrder).Scan(&item.ID, &item.CategorySlug, &item.DisplayOrder, &item.OriginalText, &item.FriendlyText)
	if err != nil {
		return ChecklistItem{}, err
	}
	return item, nil
}

func (s *PostgresStore) CountChecklistItems(ctx context.Context, categorySlug string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checklist_items WHERE category_slug=$1`, categorySlug).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count checklist items: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) InsertChecklistItem(ctx context.Context, item ChecklistItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checklist_items (id, category_slug, display_order, original_text, friendly_text)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, item.ID, item.CategorySlug, item.DisplayOrder, item.OriginalText, item.FriendlyText)
	if err != nil {
		return fmt.Errorf("insert checklist item: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProgress(ctx context.Context, userID, categorySlug string) (UserProgress, error) {
	var progress UserProgress
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, category_slug, current_step, is_complete, updated_at
		FROM user_progress
		WHERE user_id=$1 AND category_slug=$2
	`, userID, categorySlug).Scan(&progress.UserID, &progress.CategorySlug, &progress.CurrentStep, &progress.IsComplete, &progress.UpdatedAt)
	if err != nil {
		return UserProgress{}, err
	}
	return progress, nil
}

// UpsertProgress advances a (user, category) row atomically. The GREATEST
// guard makes concurrent advances converge on the higher step, and the OR
// keeps is_complete one-way; a stale lower step is a no-op that still
// returns the current row.
func (s *PostgresStore) UpsertProgress(ctx context.Context, userID, categorySlug string, targetStep int, complete bool) (UserProgress, error) {
	var progress UserProgress
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO user_progress (user_id, category_slug, current_step, is_complete)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, category_slug) DO UPDATE
		SET current_step = GREATEST(user_progress.current_step, EXCLUDED.current_step),
		    is_complete = user_progress.is_complete OR EXCLUDED.is_complete,
		    updated_at = NOW()
		RETURNING user_id, category_slug, current_step, is_complete, updated_at
	`, userID, categorySlug, targetStep, complete).Scan(
		&progress.UserID,
		&progress.CategorySlug,
		&progress.CurrentStep,
		&progress.IsComplete,
		&progress.UpdatedAt,
	)
	if err != nil {
		return UserProgress{}, fmt.Errorf("upsert progress: %w", err)
	}
	return progress, nil
}

func (s *PostgresStore) GetActiveSnagList(ctx context.Context, userID string) (SnagList, error) {
	return s.scanSnagList(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, is_active, payment_status, share_id, address, builder_name, builder_email, shared_at, created_at
		FROM snag_lists
		WHERE user_id=$1 AND is_active
		ORDER BY created_at DESC
		LIMIT 1
	`, userID))
}

func (s *PostgresStore) LatestSnagList(ctx context.Context, userID string) (SnagList, error) {
	return s.scanSnagList(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, is_active, payment_status, share_id, address, builder_name, builder_email, shared_at, created_at
		FROM snag_lists
		WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID))
}

func (s *PostgresStore) GetSnagList(ctx context.Context, listID string) (SnagList, error) {
	return s.scanSnagList(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, is_active, payment_status, share_id, address, builder_name, builder_email, shared_at, created_at
		FROM snag_lists
		WHERE id=$1
	`, listID))
}

func (s *PostgresStore) GetSnagListByShareID(ctx context.Context, shareID string) (SnagList, error) {
	return s.scanSnagList(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, is_active, payment_status, share_id, address, builder_name, builder_email, shared_at, created_at
		FROM snag_lists
		WHERE share_id=$1
	`, shareID))
}

func (s *PostgresStore) scanSnagList(row *sql.Row) (SnagList, error) {
	var list SnagList
	err := row.Scan(
		&list.ID,
		&list.UserID,
		&list.Name,
		&list.IsActive,
		&list.PaymentStatus,
		&list.ShareID,
		&list.Address,
		&list.BuilderName,
		&list.BuilderEmail,
		&list.SharedAt,
		&list.CreatedAt,
	)
	if err != nil {
		return SnagList{}, err
	}
	return list, nil
}

func (s *PostgresStore) ListSnagLists(ctx context.Context, userID string) ([]SnagList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, is_active, payment_status, share_id, address, builder_name, builder_email, shared_at, created_at
		FROM snag_lists
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list snag lists: %w", err)
	}
	defer rows.Close()

	items := make([]SnagList, 0)
	for rows.Next() {
		var list SnagList
		if err := rows.Scan(
			&list.ID,
			&list.UserID,
			&list.Name,
			&list.IsActive,
			&list.PaymentStatus,
			&list.ShareID,
			&list.Address,
			&list.BuilderName,
			&list.BuilderEmail,
			&list.SharedAt,
			&list.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan snag list: %w", err)
		}
		items = append(items, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snag lists: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) InsertSnagList(ctx context.Context, list SnagList) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snag_lists (id, user_id, name, is_active)
		VALUES ($1, $2, $3, $4)
	`, list.ID, list.UserID, list.Name, list.IsActive)
	if err != nil {
		return fmt.Errorf("insert snag list: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeactivateSnagLists(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE snag_lists SET is_active=FALSE WHERE user_id=$1 AND is_active
	`, userID)
	if err != nil {
		return fmt.Errorf("deactivate snag lists: %w", err)
	}
	return nil
}

func (s *PostgresStore) ActivateSnagList(ctx context.Context, userID, listID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE snag_lists SET is_active=TRUE WHERE id=$1 AND user_id=$2
	`, listID, userID)
	if err != nil {
		return fmt.Errorf("activate snag list: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("activate snag list rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *PostgresStore) SetSnagListPaymentStatus(ctx context.Context, listID, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE snag_lists SET payment_status=$2 WHERE id=$1
	`, listID, status)
	if err != nil {
		return fmt.Errorf("set snag list payment status: %w", err)
	}
	return nil
}

// FinalizeSnagList binds a paid share's metadata onto the list exactly
// once. The shared_at guard means a second finalization attempt affects
// zero rows and reports false instead of overwriting.
func (s *PostgresStore) FinalizeSnagList(ctx context.Context, listID, shareID, address, builderName, builderEmail string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE snag_lists
		SET share_id=$2, address=$3, builder_name=$4, builder_email=$5, shared_at=NOW(), payment_status=''
		WHERE id=$1 AND shared_at IS NULL
	`, listID, shareID, address, builderName, builderEmail)
	if err != nil {
		return false, fmt.Errorf("finalize snag list: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("finalize snag list rows: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) InsertSnag(ctx context.Context, snag Snag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snags (id, user_id, checklist_item_id, snag_list_id, note, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, snag.ID, snag.UserID, snag.ChecklistItemID, snag.SnagListID, snag.Note, snag.PhotoURL)
	if err != nil {
		return fmt.Errorf("insert snag: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSnags(ctx context.Context, listID string) ([]Snag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, checklist_item_id, snag_list_id, note, photo_url, created_at
		FROM snags
		WHERE snag_list_id=$1
		ORDER BY created_at ASC
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("list snags: %w", err)
	}
	defer rows.Close()

	items := make([]Snag, 0)
	for rows.Next() {
		var snag Snag
		if err := rows.Scan(&snag.ID, &snag.UserID, &snag.ChecklistItemID, &snag.SnagListID, &snag.Note, &snag.PhotoURL, &snag.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snag: %w", err)
		}
		items = append(items, snag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snags: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) InsertShareRequest(ctx context.Context, share ShareRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO share_requests (id, user_id, builder_name, builder_email, address, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, share.ID, share.UserID, share.BuilderName, share.BuilderEmail, share.Address, share.Status)
	if err != nil {
		return fmt.Errorf("insert share request: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetShareRequest(ctx context.Context, shareID string) (ShareRequest, error) {
	var share ShareRequest
	var paymentIntentID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, builder_name, builder_email, address, status, payment_intent_id, created_at
		FROM share_requests
		WHERE id=$1
	`, shareID).Scan(
		&share.ID,
		&share.UserID,
		&share.BuilderName,
		&share.BuilderEmail,
		&share.Address,
		&share.Status,
		&paymentIntentID,
		&share.CreatedAt,
	)
	if err != nil {
		return ShareRequest{}, err
	}
	share.PaymentIntentID = paymentIntentID.String
	return share, nil
}

// MarkShareRequestPaid flips the status conditionally so that whichever
// confirmation channel lands first wins; the loser affects zero rows.
func (s *PostgresStore) MarkShareRequestPaid(ctx context.Context, shareID, paymentReference string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE share_requests
		SET status=$2, payment_intent_id=$3
		WHERE id=$1 AND status <> $2
	`, shareID, ShareStatusPaid, paymentReference)
	if err != nil {
		return false, fmt.Errorf("mark share request paid: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark share request paid rows: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) MarkShareRequestFailed(ctx context.Context, shareID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE share_requests
		SET status=$2
		WHERE id=$1 AND status=$3
	`, shareID, ShareStatusFailed, ShareStatusPending)
	if err != nil {
		return false, fmt.Errorf("mark share request failed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark share request failed rows: %w", err)
	}
	return affected > 0, nil
}

// Ping verifies the database connection is alive
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// IsNotFound reports whether err is the store's no-rows sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
