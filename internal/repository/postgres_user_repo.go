package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/massago/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, firebase_uid, email, name, age, weight_kg, height_cm, gender, created_at, updated_at`

// scanUser は1行分のユーザーをスキャンする。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var age sql.NullInt64
	var weight, height sql.NullFloat64
	var gender sql.NullString

	err := row.Scan(
		&user.ID, &user.FirebaseUID, &user.Email, &user.Name,
		&age, &weight, &height, &gender,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if age.Valid {
		v := int(age.Int64)
		user.Age = &v
	}
	if weight.Valid {
		user.WeightKg = &weight.Float64
	}
	if height.Valid {
		user.HeightCm = &height.Float64
	}
	if gender.Valid {
		user.Gender = &gender.String
	}

	return user, nil
}

// FindByID は内部IDでユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByFirebaseUID はFirebase UIDでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE firebase_uid = $1`,
		firebaseUID,
	)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by firebase UID: %w", err)
	}
	return user, nil
}

// Create はユーザーを作成する。生成された内部IDとタイムスタンプをuserに設定する。
// firebase_uidのユニーク制約違反はラップせずそのまま返す。
// 呼び出し側がIsUniqueViolationで競合を判定できるようにするため。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (firebase_uid, email, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		user.FirebaseUID, user.Email, user.Name,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateProfile はプロフィールを全上書き更新する。
// 対象ユーザーが存在しない場合はfalseを返す。
func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, userID int64, update *model.ProfileUpdate) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $2, age = $3, weight_kg = $4, height_cm = $5, updated_at = now()
		 WHERE id = $1`,
		userID, update.Name, update.Age, update.WeightKg, update.HeightCm,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update profile: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteAccount はsessions → preferences → usersの順に単一トランザクションで削除する。
// スキーマのON DELETE CASCADEはバックストップであり、削除順序はここで明示する。
func (r *PostgresUserRepo) DeleteAccount(ctx context.Context, userID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return false, fmt.Errorf("failed to delete sessions: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM preferences WHERE user_id = $1`, userID); err != nil {
		return false, fmt.Errorf("failed to delete preference: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
