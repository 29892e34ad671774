// Package campaignsync is the campaignsync application: configuration,
// store selection and the HTTP API over the campaign service.
//
// The durable campaign store is one of PostgreSQL (through GORM), SurrealDB,
// Supabase (PostgREST over HTTP) or memory. The per-owner draft slot lives
// in memory, a bbolt file or Redis.
//
// Configuration is layered. Defaults are overridden by an optional YAML
// file (-config), then by a dotenv file (-env-file, default .env) and the
// process environment, then by explicit flags:
//
//	CAMPAIGNSYNC_BACKEND           memory, postgres, surrealdb or supabase
//	CAMPAIGNSYNC_DRAFTS            memory, bolt or redis
//	CAMPAIGNSYNC_READ_ONLY         reject every durable write
//	CAMPAIGNSYNC_WRITE_TIMEOUT     bound on a durable write (default 30s)
//	CAMPAIGNSYNC_SERVER_PORT       HTTP port (default 8080)
//	CAMPAIGNSYNC_LOG_LEVEL         debug, info, warn or error
//	CAMPAIGNSYNC_POSTGRES_DSN      PostgreSQL connection string
//	CAMPAIGNSYNC_SURREALDB_URL     SurrealDB WebSocket URL (ws://localhost:8000/rpc)
//	CAMPAIGNSYNC_SUPABASE_URL      Supabase project URL
//	CAMPAIGNSYNC_SUPABASE_API_KEY  Supabase service key
//	CAMPAIGNSYNC_BOLT_PATH         draft database file
//	CAMPAIGNSYNC_REDIS_URL         Redis URL for drafts
//
// Run the schema migration once per durable store, then serve:
//
//	campaignsync -backend postgres migrate
//	campaignsync -backend postgres -drafts redis run
package campaignsync
