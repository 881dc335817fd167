package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Client is the PostgreSQL client.
type Client struct {
	pool   *pgxpool.Pool
	config Config
}

// Config is the PostgreSQL client configuration.
type Config struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	Database string `env:"DATABASE" envDefault:"trading"`
	Username string `env:"USERNAME" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:""`

	SSLMode string `env:"SSL_MODE" envDefault:"prefer"`

	MaxConns        int32         `env:"MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"2h"`
	MaxConnIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"15m"`
	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`

	ApplicationName string `env:"APPLICATION_NAME" envDefault:"trading-simulator"`
}

// Ensure Client implements PostgreSQLClient interface
var _ PostgreSQLClient = (*Client)(nil)

// NewClient creates a new PostgreSQL client backed by a pgx connection pool.
func NewClient(ctx context.Context, config Config) (PostgreSQLClient, error) {
	pgxConfig, err := pgxpool.ParseConfig(buildConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgresql config: %w", err)
	}

	pgxConfig.MaxConns = config.MaxConns
	pgxConfig.MinConns = config.MinConns
	pgxConfig.MaxConnLifetime = config.MaxConnLifetime
	pgxConfig.MaxConnIdleTime = config.MaxConnIdleTime
	pgxConfig.ConnConfig.ConnectTimeout = config.ConnectTimeout

	if config.ApplicationName != "" {
		pgxConfig.ConnConfig.RuntimeParams["application_name"] = config.ApplicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgresql pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgresql: %w", err)
	}

	return &Client{
		pool:   pool,
		config: config,
	}, nil
}

func buildConnectionString(config Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		config.Username,
		config.Password,
		config.Host,
		config.Port,
		config.Database,
		config.SSLMode,
	)
}

// Exec executes a query without returning any rows. If the context carries a
// transaction it runs inside it.
func (c *Client) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx, ok := GetTx(ctx); ok {
		return tx.Exec(ctx, sql, args...)
	}
	return c.pool.Exec(ctx, sql, args...)
}

// Query executes a query that returns rows.
func (c *Client) Query(ctx context.Context, sql string, args ...any) (RowsInterface, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if tx, ok := GetTx(ctx); ok {
		rows, err = tx.Query(ctx, sql, args...)
	} else {
		rows, err = c.pool.Query(ctx, sql, args...)
	}
	if err != nil {
		return nil, err
	}
	return NewRowsWrapper(rows), nil
}

// QueryRow executes a query that is expected to return at most one row.
func (c *Client) QueryRow(ctx context.Context, sql string, args ...any) RowInterface {
	if tx, ok := GetTx(ctx); ok {
		return tx.QueryRow(ctx, sql, args...)
	}
	return c.pool.QueryRow(ctx, sql, args...)
}

// Begin starts a transaction.
func (c *Client) Begin(ctx context.Context) (pgx.Tx, error) {
	return c.pool.Begin(ctx)
}

// BeginTx starts a transaction with specific options.
func (c *Client) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return c.pool.BeginTx(ctx, txOptions)
}

// Ping pings the connection pool.
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close closes the connection pool.
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}
