// Package app はhotelbookバックエンドの起動処理を提供する。
// 1つのバイナリでAPIサーバー、インデックスのマイグレーション、
// コンテナ向けのヘルスチェックをサブコマンドとして切り替える。
package app

// Command はアプリケーションの起動モードを表す。
// docker-compose.ymlのapi・migrateサービスとDockerfileのHEALTHCHECKがそれぞれ指定する。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate はrooms・reviews・bookingsのインデックスを作成するマイグレーションを実行することを示す。
	// APIサーバーは起動時にマイグレーションを適用しないため、デプロイ時に先に実行する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
