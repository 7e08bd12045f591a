package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

func NewConfig(host, user, password, port, dbname, sslmode string) Config {
	return Config{
		host:     host,
		user:     user,
		password: password,
		port:     port,
		dbname:   dbname,
		sslmode:  sslmode,
	}
}

func NewPool(ctx context.Context, config Config) (*pgxpool.Pool, error) {
	p, err := pgxpool.New(ctx, config.ConnStr())
	if err != nil {
		return nil, err
	}

	err = p.Ping(ctx)
	if err != nil {
		return nil, err
	}

	return p, nil
}

var (
	ErrNoRows        = errors.New("no rows in result set")
	ErrQueryRow      = errors.New("could not execute query")
	ErrStoreFailed   = errors.New("could not store data")
	ErrNoID          = errors.New("data contains no id")
	ErrMissingTenant = errors.New("missing tenant information")
	ErrAlreadyExist  = errors.New("alert already exists")
)

type Storage struct {
	pool *pgxpool.Pool
}

func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func New(ctx context.Context, config Config) (*Storage, error) {
	pool, err := NewPool(ctx, config)
	if err != nil {
		return nil, err
	}

	return &Storage{pool: pool}, nil
}

func (s *Storage) CreateTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS measurements (
			site		TEXT 	NOT NULL,
			platform	TEXT 	NOT NULL,
			metric		TEXT 	NOT NULL,
			date		DATE 	NOT NULL,
			value		BIGINT	NOT NULL,
			preliminary	BOOLEAN	NOT NULL DEFAULT FALSE,
			tenant		TEXT 	NOT NULL,
			created_on  timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			modified_on	timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT pkey_measurements_unique PRIMARY KEY (site, platform, metric, date)
		);

		CREATE TABLE IF NOT EXISTS alerts (
			alert_id 		VARCHAR(255),
			identity_key	VARCHAR(255) NOT NULL,
			site			TEXT 	NOT NULL,
			platform		TEXT 	NOT NULL,
			metric			TEXT 	NOT NULL,
			date			DATE 	NOT NULL,
			severity 		INT 	NOT NULL,
			current_value	NUMERIC NOT NULL,
			baseline_median	NUMERIC NOT NULL,
			percent_change	NUMERIC NULL,
			zscore			NUMERIC NULL,
			triggered_rules	JSONB 	NOT NULL DEFAULT '[]',
			message 		TEXT,
			tenant 			VARCHAR(255) NOT NULL,
			created_on  	timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			modified_on		timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			acknowledged	BOOLEAN NOT NULL DEFAULT FALSE,
			acknowledged_on timestamp with time zone NULL,
			acknowledged_by	TEXT NULL,
			CONSTRAINT pkey_alerts_unique PRIMARY KEY (alert_id),
			CONSTRAINT alerts_identity_key_unique UNIQUE (identity_key)
		);

		CREATE INDEX IF NOT EXISTS measurements_tuple_date_idx ON measurements (site, platform, metric, date DESC);
		CREATE INDEX IF NOT EXISTS alerts_tenant_idx ON alerts (tenant);
		CREATE INDEX IF NOT EXISTS alerts_severity_idx ON alerts (severity) WHERE severity > 0;
	`)
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) Close() {
	s.pool.Close()
}
