// internal/infra/config/config.go
package config

import (
	"os"
	"strings"
)

// RemoteBackend は権威ストアへの接続方式。
const (
	RemoteBackendAPI       = "api"       // mall HTTP API 経由（通常）
	RemoteBackendFirestore = "firestore" // Firestore 直結（信頼済み環境のみ）
)

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	// mall API
	MallAPIBaseURL string
	MallAPIKey     string
	// MALL_API_KEY が未設定のとき Secret Manager から解決する secretId
	MallAPIKeySecret string

	// 権威ストアの選択: "api" | "firestore"
	RemoteBackend string

	// Firestore / Firebase
	GCPProjectID             string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string
	FirebaseCredentialsFile  string

	// ローカル永続キャッシュ (sqlite)
	CacheDBPath string

	Debug bool
}

// Load は環境変数を読み込み Config を返します。
func Load() *Config {
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	cfg := &Config{
		MallAPIBaseURL:   os.Getenv("MALL_API_BASE_URL"),
		MallAPIKey:       os.Getenv("MALL_API_KEY"),
		MallAPIKeySecret: os.Getenv("MALL_API_KEY_SECRET"),

		RemoteBackend: getenvDefault("MALL_REMOTE_BACKEND", RemoteBackendAPI),

		GCPProjectID:             defaultProject,
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		// FIREBASE_PROJECT_ID が未指定なら GCP のデフォルトを使う
		FirebaseProjectID:       getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),

		CacheDBPath: getenvDefault("MALLSYNC_CACHE_DB", "mallsync.db"),

		Debug: strings.EqualFold(os.Getenv("MALLSYNC_DEBUG"), "true"),
	}

	return cfg
}

// UseFirestoreBackend reports whether the direct Firestore store is selected.
func (c *Config) UseFirestoreBackend() bool {
	return strings.EqualFold(strings.TrimSpace(c.RemoteBackend), RemoteBackendFirestore)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
