package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"coder_edu_client/internal/model"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyIdentity     = "user"
)

// TokenStore 本地持久化的凭证存储。除读写外不含任何逻辑，
// 会话状态的唯一所有者是 session.Manager。
type TokenStore struct {
	db *sql.DB
}

func Open(path string) (*TokenStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS credentials (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create credentials table: %w", err)
	}

	return &TokenStore{db: db}, nil
}

func (s *TokenStore) Close() error {
	return s.db.Close()
}

func (s *TokenStore) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM credentials WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Tokens 读取令牌对，缺失时返回空串
func (s *TokenStore) Tokens() (access, refresh string, err error) {
	if access, err = s.get(keyAccessToken); err != nil {
		return "", "", err
	}
	if refresh, err = s.get(keyRefreshToken); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// SaveTokens 在一个事务内写入两个令牌，避免出现新旧混配的窗口
func (s *TokenStore) SaveTokens(access, refresh string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	const upsert = `INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	for _, kv := range [][2]string{{keyAccessToken, access}, {keyRefreshToken, refresh}} {
		if _, err := tx.Exec(upsert, kv[0], kv[1]); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *TokenStore) SaveIdentity(id model.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	const upsert = `INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	_, err = s.db.Exec(upsert, keyIdentity, string(data))
	return err
}

func (s *TokenStore) Identity() (*model.Identity, error) {
	raw, err := s.get(keyIdentity)
	if err != nil || raw == "" {
		return nil, err
	}
	var id model.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// Clear 在一个事务内删除全部凭证
func (s *TokenStore) Clear() error {
	_, err := s.db.Exec("DELETE FROM credentials WHERE key IN (?, ?, ?)",
		keyAccessToken, keyRefreshToken, keyIdentity)
	return err
}
