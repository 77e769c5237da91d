// Package kv defines the durable key-value substrate the persistence adapter
// writes the academy snapshot, session, and preferences to.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver identifies a concrete substrate implementation.
type Driver string

const (
	// DriverMemory keeps values in process memory (tests, ephemeral runs).
	DriverMemory Driver = "memory"
	// DriverFilesystem stores one file per key under a root directory.
	DriverFilesystem Driver = "fs"
	// DriverSQLite stores keys in a SQLite table.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores keys in a Postgres table.
	DriverPostgres Driver = "postgres"
	// DriverRedis stores keys as Redis strings.
	DriverRedis Driver = "redis"
	// DriverS3 stores one object per key in an S3-compatible bucket.
	DriverS3 Driver = "s3"
)

// Drivers lists every supported driver.
func Drivers() []Driver {
	return []Driver{DriverMemory, DriverFilesystem, DriverSQLite, DriverPostgres, DriverRedis, DriverS3}
}

// ParseDriver resolves a driver name, case-insensitively.
func ParseDriver(name string) (Driver, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range Drivers() {
		if string(d) == name {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown kv driver %q", name)
}

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a flat string-keyed byte store. Values written with Set replace
// any previous value. Deleting a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Driver() Driver
	Close() error
}

// ValidateKey rejects keys no backend can store.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("kv: empty key")
	}
	return nil
}
