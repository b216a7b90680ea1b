package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

// コンパイル時チェック：各Postgres実装がインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

func TestPostgresPreferenceRepo_ImplementsInterface(t *testing.T) {
	var _ PreferenceRepository = (*PostgresPreferenceRepo)(nil)
}

func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

func TestIsUniqueViolation_PqError(t *testing.T) {
	err := &pq.Error{Code: "23505"}
	if !IsUniqueViolation(err) {
		t.Error("expected unique violation to be detected")
	}
}

func TestIsUniqueViolation_WrappedPqError(t *testing.T) {
	err := fmt.Errorf("failed to insert user: %w", &pq.Error{Code: "23505"})
	if !IsUniqueViolation(err) {
		t.Error("expected wrapped unique violation to be detected")
	}
}

func TestIsUniqueViolation_OtherPqError(t *testing.T) {
	// check_violation（CHECK制約違反）はユニーク違反ではない
	err := &pq.Error{Code: "23514"}
	if IsUniqueViolation(err) {
		t.Error("check violation should not be classified as unique violation")
	}
}

func TestIsUniqueViolation_PlainError(t *testing.T) {
	if IsUniqueViolation(errors.New("connection refused")) {
		t.Error("plain error should not be classified as unique violation")
	}
}
